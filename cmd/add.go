package cmd

import (
	"fmt"

	"mediashelf/app/model"

	"github.com/spf13/cobra"
)

var addOpts struct {
	title    string
	isbn     string
	barcode  string
	imageURL string
	authors  string
	platform string
	artist   string
}

var addCmd = &cobra.Command{
	Use:   "add <media>",
	Short: "新增目录条目",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mt, err := model.ParseMediaType(args[0])
		if err != nil {
			return err
		}
		if addOpts.title == "" {
			return fmt.Errorf("--title 不能为空")
		}

		entity := newEntity(mt)

		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := a.srv.Store.Create(cmd.Context(), entity); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已创建 %s %s\n", mt, entity.EntityID())
		return nil
	},
}

// newEntity 按命令行参数构造模型指针
func newEntity(mt model.MediaType) model.Enrichable {
	switch mt {
	case model.MediaTypeBook:
		return &model.Book{Title: addOpts.title, Authors: addOpts.authors, ISBN: addOpts.isbn, ImageURL: addOpts.imageURL}
	case model.MediaTypeMovie:
		return &model.Movie{Title: addOpts.title, Barcode: addOpts.barcode, ImageURL: addOpts.imageURL}
	case model.MediaTypeGame:
		return &model.Game{Title: addOpts.title, Barcode: addOpts.barcode, Platform: addOpts.platform, ImageURL: addOpts.imageURL}
	default:
		return &model.Music{Title: addOpts.title, Artist: addOpts.artist, Barcode: addOpts.barcode, ImageURL: addOpts.imageURL}
	}
}

func init() {
	f := addCmd.Flags()
	f.StringVar(&addOpts.title, "title", "", "标题")
	f.StringVar(&addOpts.isbn, "isbn", "", "ISBN（图书）")
	f.StringVar(&addOpts.barcode, "barcode", "", "UPC/EAN 条码（影片、游戏、音乐）")
	f.StringVar(&addOpts.imageURL, "image-url", "", "已有图片地址")
	f.StringVar(&addOpts.authors, "authors", "", "作者（图书）")
	f.StringVar(&addOpts.platform, "platform", "", "平台（游戏）")
	f.StringVar(&addOpts.artist, "artist", "", "艺术家（音乐）")
	rootCmd.AddCommand(addCmd)
}
