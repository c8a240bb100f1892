package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var passCmd = &cobra.Command{
	Use:   "pass",
	Short: "立即执行一轮补全并输出统计",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		summary := a.srv.RunPass(ctx)
		if summary.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "没有可用的查找策略，已跳过")
			return nil
		}

		rows := make([][]any, 0, len(summary.Types)+1)
		for _, ts := range summary.Types {
			rows = append(rows, []any{ts.MediaType, ts.Allocated, ts.Processed, ts.Succeeded, ts.Failed})
		}
		rows = append(rows, []any{"total", "", summary.Processed, summary.Succeeded, summary.Failed})
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"类型", "分配", "处理", "成功", "失败"}, rows, 1))
		fmt.Fprintf(cmd.OutOrStdout(), "耗时 %s，超时=%v，取消=%v\n", summary.Duration, summary.BudgetExhausted, summary.Cancelled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passCmd)
}
