package cmd

import (
	"fmt"

	"mediashelf/app/model"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看各媒体类型的补全进度",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		rows := make([][]any, 0, len(model.MediaTypes()))
		for _, mt := range model.MediaTypes() {
			stats, err := a.srv.Store.Stats(cmd.Context(), mt)
			if err != nil {
				return err
			}
			available := "否"
			if a.srv.Registry.Supports(mt) {
				available = "是"
			}
			rows = append(rows, []any{mt, available, stats.Total, stats.WithCover, stats.Attempted, stats.Failed, stats.Permanent, stats.Pending})
		}

		headers := []string{"类型", "可用", "总数", "有封面", "已尝试", "失败", "永久失败", "待补全"}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 2))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
