package model

import "time"

// ImageMetadata 已保存封面的元数据
type ImageMetadata struct {
	Path        string     `gorm:"size:500;comment:存储相对路径" json:"path"`
	SourceURL   string     `gorm:"size:1000;comment:来源地址" json:"source_url"`
	ContentType string     `gorm:"size:50" json:"content_type"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Size        int64      `json:"size"`
	SavedAt     *time.Time `json:"saved_at"`
}

// IsZero 是否未保存封面
func (m ImageMetadata) IsZero() bool {
	return m.Path == ""
}
