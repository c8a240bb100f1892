package model

import (
	"fmt"
	"strings"
)

// MediaType 媒体类型（封闭枚举，运行时不扩展）
type MediaType string

const (
	MediaTypeBook  MediaType = "book"
	MediaTypeMovie MediaType = "movie"
	MediaTypeGame  MediaType = "game"
	MediaTypeMusic MediaType = "music"
)

// MediaTypes 按固定枚举顺序返回全部媒体类型，调度器按此顺序处理
func MediaTypes() []MediaType {
	return []MediaType{MediaTypeBook, MediaTypeMovie, MediaTypeGame, MediaTypeMusic}
}

// Valid 检查媒体类型是否属于枚举
func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeBook, MediaTypeMovie, MediaTypeGame, MediaTypeMusic:
		return true
	}
	return false
}

func (m MediaType) String() string {
	return string(m)
}

// ParseMediaType 解析媒体类型，忽略大小写
func ParseMediaType(value string) (MediaType, error) {
	mt := MediaType(strings.ToLower(strings.TrimSpace(value)))
	if !mt.Valid() {
		return "", fmt.Errorf("未知的媒体类型: %q", value)
	}
	return mt, nil
}

// IdentifierType 查找编码类型（封闭枚举）
type IdentifierType string

const (
	IdentifierISBN IdentifierType = "isbn"
	IdentifierLCCN IdentifierType = "lccn"
	IdentifierOCLC IdentifierType = "oclc"
	IdentifierOLID IdentifierType = "olid"
	IdentifierUPC  IdentifierType = "upc"
	IdentifierEAN  IdentifierType = "ean"
)

// IdentifierTypes 返回全部编码类型
func IdentifierTypes() []IdentifierType {
	return []IdentifierType{
		IdentifierISBN,
		IdentifierLCCN,
		IdentifierOCLC,
		IdentifierOLID,
		IdentifierUPC,
		IdentifierEAN,
	}
}

// Valid 检查编码类型是否属于枚举
func (t IdentifierType) Valid() bool {
	switch t {
	case IdentifierISBN, IdentifierLCCN, IdentifierOCLC, IdentifierOLID, IdentifierUPC, IdentifierEAN:
		return true
	}
	return false
}

func (t IdentifierType) String() string {
	return string(t)
}

// ParseIdentifierType 解析编码类型，忽略大小写
func ParseIdentifierType(value string) (IdentifierType, error) {
	it := IdentifierType(strings.ToLower(strings.TrimSpace(value)))
	if !it.Valid() {
		return "", fmt.Errorf("未知的编码类型: %q", value)
	}
	return it, nil
}
