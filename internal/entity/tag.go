package entity

// Tag mirrors the `tags` PostgreSQL table schema. Tags are created the
// first time a name is seen and never updated or deleted afterwards.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagUsage is the per-tag association count, split by question language.
type TagUsage struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	UsageCount   int    `json:"usage_count"`
	EnglishCount int    `json:"english_count"`
	ChineseCount int    `json:"chinese_count"`
}
