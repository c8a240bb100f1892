package cmd

import (
	"fmt"

	"mediashelf/app/model"
	"mediashelf/app/store"

	"github.com/spf13/cobra"
)

var resetOpts store.ResetOptions

var resetCmd = &cobra.Command{
	Use:   "reset <media>",
	Short: "清除补全尝试记录，使实体重新进入待补全队列",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mt, err := model.ParseMediaType(args[0])
		if err != nil {
			return err
		}

		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := a.srv.Store.ResetAttempts(cmd.Context(), mt, resetOpts)
		if err != nil {
			return err
		}
		a.log.Infof("已重置 %d 条 %s 补全记录", n, mt)
		fmt.Fprintf(cmd.OutOrStdout(), "已重置 %d 条记录\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringVar(&resetOpts.ID, "id", "", "只重置指定实体")
	resetCmd.Flags().BoolVar(&resetOpts.TransientOnly, "transient-only", false, "只重置非永久失败的记录")
	rootCmd.AddCommand(resetCmd)
}
