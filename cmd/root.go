package cmd

import (
	"fmt"
	"os"
	"strings"

	"mediashelf/app/config"
	"mediashelf/app/database"
	"mediashelf/app/logger"
	"mediashelf/app/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "mediashelf",
	Short:         "媒体收藏目录补全工具",
	Long:          "为图书、影片、游戏与音乐目录按条码/ISBN 查找元数据并下载封面",
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径（默认 ./data/config.yaml 或 ./config.yaml）")
}

// initConfig 设置配置文件搜索路径和环境变量，例如 SCHEDULER_BATCH_SIZE
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("./data") // 相对于当前工作目录的 data 文件夹
		viper.AddConfigPath(".")      // 当前目录
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // 读取匹配的环境变量
}

// app 命令共用的运行环境
type app struct {
	cfg *config.Config
	log *logger.Logger
	srv *server.Server
}

// bootstrap 加载配置、初始化日志与数据库并组装服务
func bootstrap() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.Log)

	if err := database.Init(cfg, log); err != nil {
		log.Close()
		return nil, nil, fmt.Errorf("数据库初始化失败: %w", err)
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		database.Close()
		log.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := database.Close(); err != nil {
			log.Errorf("关闭数据库失败: %v", err)
		}
		_ = log.Close()
	}
	return &app{cfg: cfg, log: log, srv: srv}, cleanup, nil
}
