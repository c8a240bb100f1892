package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"mediashelf/app/config"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "启动后台补全调度",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		config.Watch(func(cfg *config.Config) {
			a.log.Info("检测到配置文件变化，重新加载")
			a.srv.ApplyConfig(cfg)
		}, func(err error) {
			a.log.Errorf("新配置无效，继续使用旧配置: %v", err)
		})

		a.srv.Start(ctx)

		<-ctx.Done()
		a.log.Info("收到关闭信号，正在停止...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("停止失败: %v", err)
		}
		a.log.Info("已退出")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
