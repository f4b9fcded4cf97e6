package model

// Resource 健康资源（资源目录服务所有，仅通过其增删改接口变更）
type Resource struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"column:title;type:varchar(256)" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Category    string `gorm:"column:category;type:varchar(64);index" json:"category"`
	URL         string `gorm:"column:url;type:varchar(512)" json:"url"`
}

func (Resource) TableName() string { return "resources" }
