package model

// IdentifierKind 实体查找键的类别
type IdentifierKind int

const (
	// IdentifierKindISBN 书籍固定使用 ISBN
	IdentifierKindISBN IdentifierKind = iota
	// IdentifierKindBarcode 条码，按位数区分 UPC/EAN
	IdentifierKindBarcode
)

// LookupKey 实体上被标记为查找键的字段
type LookupKey struct {
	Value string
	Kind  IdentifierKind
}

// Enrichable 可被补全的目录实体
type Enrichable interface {
	EntityID() string
	MediaType() MediaType
	DisplayTitle() string
	// ExistingImageURL 实体自带的图片地址，可能为空
	ExistingImageURL() string
	LookupKey() LookupKey
	Attempt() EnrichmentAttempt
	Cover() ImageMetadata
}
