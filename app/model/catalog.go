package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book 书籍
type Book struct {
	ID         string            `gorm:"primarykey;size:36" json:"id"`
	Title      string            `gorm:"size:500;not null;comment:标题" json:"title"`
	Authors    string            `gorm:"size:500;comment:作者" json:"authors"`
	ISBN       string            `gorm:"size:20;index;comment:ISBN" json:"isbn"`
	ImageURL   string            `gorm:"size:1000;comment:已有图片地址" json:"image_url"`
	CoverImage ImageMetadata     `gorm:"embedded;embeddedPrefix:cover_" json:"cover_image"`
	Enrichment EnrichmentAttempt `gorm:"embedded;embeddedPrefix:enrichment_" json:"enrichment"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Book) TableName() string {
	return "books"
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b Book) EntityID() string { return b.ID }
func (b Book) MediaType() MediaType { return MediaTypeBook }
func (b Book) DisplayTitle() string { return b.Title }
func (b Book) ExistingImageURL() string { return b.ImageURL }
func (b Book) Attempt() EnrichmentAttempt { return b.Enrichment }
func (b Book) Cover() ImageMetadata { return b.CoverImage }
func (b Book) LookupKey() LookupKey { return LookupKey{Value: b.ISBN, Kind: IdentifierKindISBN} }

// Movie 影片
type Movie struct {
	ID         string            `gorm:"primarykey;size:36" json:"id"`
	Title      string            `gorm:"size:500;not null;comment:标题" json:"title"`
	Barcode    string            `gorm:"size:20;index;comment:UPC/EAN条码" json:"barcode"`
	Format     string            `gorm:"size:50;comment:介质格式" json:"format"`
	ImageURL   string            `gorm:"size:1000;comment:已有图片地址" json:"image_url"`
	CoverImage ImageMetadata     `gorm:"embedded;embeddedPrefix:cover_" json:"cover_image"`
	Enrichment EnrichmentAttempt `gorm:"embedded;embeddedPrefix:enrichment_" json:"enrichment"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Movie) TableName() string {
	return "movies"
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m Movie) EntityID() string { return m.ID }
func (m Movie) MediaType() MediaType { return MediaTypeMovie }
func (m Movie) DisplayTitle() string { return m.Title }
func (m Movie) ExistingImageURL() string { return m.ImageURL }
func (m Movie) Attempt() EnrichmentAttempt { return m.Enrichment }
func (m Movie) Cover() ImageMetadata { return m.CoverImage }
func (m Movie) LookupKey() LookupKey { return LookupKey{Value: m.Barcode, Kind: IdentifierKindBarcode} }

// Game 游戏
type Game struct {
	ID         string            `gorm:"primarykey;size:36" json:"id"`
	Title      string            `gorm:"size:500;not null;comment:标题" json:"title"`
	Barcode    string            `gorm:"size:20;index;comment:UPC/EAN条码" json:"barcode"`
	Platform   string            `gorm:"size:100;comment:平台" json:"platform"`
	ImageURL   string            `gorm:"size:1000;comment:已有图片地址" json:"image_url"`
	CoverImage ImageMetadata     `gorm:"embedded;embeddedPrefix:cover_" json:"cover_image"`
	Enrichment EnrichmentAttempt `gorm:"embedded;embeddedPrefix:enrichment_" json:"enrichment"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Game) TableName() string {
	return "games"
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (g Game) EntityID() string { return g.ID }
func (g Game) MediaType() MediaType { return MediaTypeGame }
func (g Game) DisplayTitle() string { return g.Title }
func (g Game) ExistingImageURL() string { return g.ImageURL }
func (g Game) Attempt() EnrichmentAttempt { return g.Enrichment }
func (g Game) Cover() ImageMetadata { return g.CoverImage }
func (g Game) LookupKey() LookupKey { return LookupKey{Value: g.Barcode, Kind: IdentifierKindBarcode} }

// Music 音乐专辑
type Music struct {
	ID         string            `gorm:"primarykey;size:36" json:"id"`
	Title      string            `gorm:"size:500;not null;comment:标题" json:"title"`
	Artist     string            `gorm:"size:300;comment:艺术家" json:"artist"`
	Barcode    string            `gorm:"size:20;index;comment:UPC/EAN条码" json:"barcode"`
	ImageURL   string            `gorm:"size:1000;comment:已有图片地址" json:"image_url"`
	CoverImage ImageMetadata     `gorm:"embedded;embeddedPrefix:cover_" json:"cover_image"`
	Enrichment EnrichmentAttempt `gorm:"embedded;embeddedPrefix:enrichment_" json:"enrichment"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Music) TableName() string {
	return "music"
}

func (m *Music) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m Music) EntityID() string { return m.ID }
func (m Music) MediaType() MediaType { return MediaTypeMusic }
func (m Music) DisplayTitle() string { return m.Title }
func (m Music) ExistingImageURL() string { return m.ImageURL }
func (m Music) Attempt() EnrichmentAttempt { return m.Enrichment }
func (m Music) Cover() ImageMetadata { return m.CoverImage }
func (m Music) LookupKey() LookupKey { return LookupKey{Value: m.Barcode, Kind: IdentifierKindBarcode} }

// CatalogModels 需要迁移的目录表
func CatalogModels() []any {
	return []any{&Book{}, &Movie{}, &Game{}, &Music{}}
}

// NewCatalogModel 返回媒体类型对应的空模型指针
func NewCatalogModel(mt MediaType) (any, bool) {
	switch mt {
	case MediaTypeBook:
		return &Book{}, true
	case MediaTypeMovie:
		return &Movie{}, true
	case MediaTypeGame:
		return &Game{}, true
	case MediaTypeMusic:
		return &Music{}, true
	}
	return nil, false
}
