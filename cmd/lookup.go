package cmd

import (
	"encoding/json"
	"fmt"

	"mediashelf/app/config"
	"mediashelf/app/logger"
	"mediashelf/app/model"
	"mediashelf/app/server"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:     "lookup <media> <identifier-type> <value>",
	Short:   "用指定编码执行一次查找并输出结果",
	Example: "  mediashelf lookup game upc 887256301891\n  mediashelf lookup book isbn 9780261103573",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		mt, err := model.ParseMediaType(args[0])
		if err != nil {
			return err
		}
		it, err := model.ParseIdentifierType(args[1])
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.Log)
		defer log.Close()

		strategy, ok := server.NewRegistry(cfg, log).Get(mt, it)
		if !ok {
			return fmt.Errorf("不支持的组合: %s/%s", mt, it)
		}

		result, err := strategy.Lookup(cmd.Context(), it, args[2])
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "未找到")
			return nil
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}
