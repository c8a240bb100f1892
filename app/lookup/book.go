package lookup

import (
	"context"
	"fmt"
	"strings"

	"mediashelf/app/logger"
	"mediashelf/app/model"
	"mediashelf/app/provider/openlibrary"
)

// BookStrategy 图书查找：isbn/lccn/oclc/olid 直接查询，upc/ean 先经条码服务取得 ISBN
type BookStrategy struct {
	support
	books    BookProvider
	barcodes BarcodeProvider
	log      *logger.Logger
}

// NewBookStrategy 创建图书策略
func NewBookStrategy(books BookProvider, barcodes BarcodeProvider, log *logger.Logger) *BookStrategy {
	return &BookStrategy{
		support: support{
			media: model.MediaTypeBook,
			identifiers: []model.IdentifierType{
				model.IdentifierISBN,
				model.IdentifierLCCN,
				model.IdentifierOCLC,
				model.IdentifierOLID,
				model.IdentifierUPC,
				model.IdentifierEAN,
			},
		},
		books:    books,
		barcodes: barcodes,
		log:      log,
	}
}

func (s *BookStrategy) Lookup(ctx context.Context, it model.IdentifierType, value string) (Result, error) {
	var (
		book *openlibrary.Book
		isbn string
		err  error
	)

	switch it {
	case model.IdentifierISBN:
		isbn = value
		book, err = s.books.ByISBN(ctx, value)
	case model.IdentifierLCCN:
		book, err = s.books.ByLCCN(ctx, value)
	case model.IdentifierOCLC:
		book, err = s.books.ByOCLC(ctx, value)
	case model.IdentifierOLID:
		book, err = s.books.ByOLID(ctx, value)
	case model.IdentifierUPC, model.IdentifierEAN:
		isbn, err = s.isbnFromBarcode(ctx, value)
		if err != nil || isbn == "" {
			return nil, err
		}
		book, err = s.books.ByISBN(ctx, isbn)
	default:
		return nil, fmt.Errorf("%w: book/%s", ErrUnsupported, it)
	}

	if err != nil {
		return nil, err
	}
	if book == nil {
		s.log.Debugf("图书 %s=%s 无数据", it, value)
		return nil, nil
	}
	return s.toResult(book, isbn), nil
}

// isbnFromBarcode 条码没有条目或第一个条目没有 ISBN 时返回空串
func (s *BookStrategy) isbnFromBarcode(ctx context.Context, code string) (string, error) {
	resp, err := s.barcodes.ByCode(ctx, code)
	if err != nil {
		return "", err
	}
	item := resp.First()
	if item == nil {
		s.log.Debugf("条码 %s 没有条目", code)
		return "", nil
	}
	isbn := strings.TrimSpace(item.ISBN)
	if isbn == "" {
		s.log.Debugf("条码 %s 的条目没有 ISBN", code)
	}
	return isbn, nil
}

func (s *BookStrategy) toResult(book *openlibrary.Book, isbn string) *BookResult {
	named := func(n openlibrary.Named) string { return n.Name }
	result := &BookResult{
		Title:       book.Title,
		Subtitle:    book.Subtitle,
		Authors:     names(book.Authors, named),
		Publishers:  names(book.Publishers, named),
		PublishDate: book.PublishDate,
		Pages:       book.NumberOfPages,
		Subjects:    names(book.Subjects, named),
		ISBN10:      first(book.Identifiers.ISBN10),
		ISBN13:      first(book.Identifiers.ISBN13),
		LCCN:        first(book.Identifiers.LCCN),
		OCLC:        first(book.Identifiers.OCLC),
		OLID:        first(book.Identifiers.OpenLibrary),
		ImageURL:    book.Cover.Best(),
	}

	if result.ImageURL == "" {
		if isbn == "" {
			isbn = result.ISBN13
		}
		if isbn == "" {
			isbn = result.ISBN10
		}
		result.ImageURL = s.books.CoverURLForISBN(isbn)
	}
	return result
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
