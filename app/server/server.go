package server

import (
	"context"
	"fmt"

	"mediashelf/app/config"
	"mediashelf/app/database"
	"mediashelf/app/enrich"
	"mediashelf/app/imagestore"
	"mediashelf/app/logger"
	"mediashelf/app/lookup"
	"mediashelf/app/provider/giantbomb"
	"mediashelf/app/provider/musicbrainz"
	"mediashelf/app/provider/openlibrary"
	"mediashelf/app/provider/tmdb"
	"mediashelf/app/provider/upcitemdb"
	"mediashelf/app/service"
	"mediashelf/app/store"
)

const userAgent = "mediashelf/1.0"

// Server 组装存储、查找策略、编排器与调度器
type Server struct {
	Config       *config.Config
	Logger       *logger.Logger
	Store        *store.CatalogStore
	Registry     *lookup.Registry
	Orchestrator *enrich.Orchestrator
	scheduler    *service.EnrichmentScheduler
}

// New 创建 Server，要求 database.Init 已完成
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	db := database.GetDB()
	if db == nil {
		return nil, fmt.Errorf("数据库未初始化")
	}

	catalog := store.New(db)
	registry := NewRegistry(cfg, log)
	images := imagestore.New(imagestore.NewLocalStore(cfg.Images.Dir), cfg.Images, log.Named("images"))
	orchestrator := enrich.NewOrchestrator(registry, images, log.Named("enrich"))

	scheduler, err := service.NewEnrichmentScheduler(cfg.Scheduler, catalog, orchestrator, registry, log.Named("scheduler"))
	if err != nil {
		return nil, err
	}

	return &Server{
		Config:       cfg,
		Logger:       log,
		Store:        catalog,
		Registry:     registry,
		Orchestrator: orchestrator,
		scheduler:    scheduler,
	}, nil
}

// NewRegistry 按配置注册策略；缺少 API key 的服务不注册，对应媒体类型在调度时被跳过
func NewRegistry(cfg *config.Config, log *logger.Logger) *lookup.Registry {
	p := cfg.Providers
	barcodes := upcitemdb.New(p.UPCItemDB, userAgent)
	registry := lookup.NewRegistry()

	registry.Register(lookup.NewBookStrategy(openlibrary.New(p.OpenLibrary, userAgent), barcodes, log.Named("book")))

	if p.TMDB.APIKey != "" {
		registry.Register(lookup.NewMovieStrategy(tmdb.New(p.TMDB, userAgent), barcodes, log.Named("movie")))
	} else {
		log.Warn("未配置 TMDB api_key，影片补全不可用")
	}

	if p.GiantBomb.APIKey != "" {
		registry.Register(lookup.NewGameStrategy(giantbomb.New(p.GiantBomb, userAgent), barcodes, log.Named("game")))
	} else {
		log.Warn("未配置 Giant Bomb api_key，游戏补全不可用")
	}

	registry.Register(lookup.NewMusicStrategy(musicbrainz.New(p.MusicBrainz), barcodes, log.Named("music")))

	return registry
}

// Start 启动后台补全调度
func (s *Server) Start(ctx context.Context) {
	if !s.Config.Scheduler.Enabled {
		s.Logger.Info("补全调度未启用")
		return
	}
	s.scheduler.Start(ctx)
}

// RunPass 立即执行一轮补全
func (s *Server) RunPass(ctx context.Context) service.PassSummary {
	return s.scheduler.RunPass(ctx)
}

// ApplyConfig 配置热更新
func (s *Server) ApplyConfig(cfg *config.Config) {
	if err := s.scheduler.UpdateConfig(cfg.Scheduler); err != nil {
		s.Logger.Errorf("应用新配置失败: %v", err)
	}
}

// Shutdown 停止调度，ctx 到期前未退出则返回错误
func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("等待补全调度退出超时: %w", ctx.Err())
	}
}
