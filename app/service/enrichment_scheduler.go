package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mediashelf/app/config"
	"mediashelf/app/enrich"
	"mediashelf/app/logger"
	"mediashelf/app/model"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultErrorBackoff 调度循环异常后的退避时间
	DefaultErrorBackoff = 60 * time.Second
)

// CatalogStore 调度器使用的存储接口
type CatalogStore interface {
	FindNeedingEnrichment(ctx context.Context, mt model.MediaType, limit int) ([]model.Enrichable, error)
	UpdateAttempt(ctx context.Context, mt model.MediaType, id string, attempt model.EnrichmentAttempt, image *model.ImageMetadata) error
}

// Enricher 单个实体的补全
type Enricher interface {
	Enrich(ctx context.Context, entity model.Enrichable) enrich.Outcome
}

// AvailabilityProbe 判断媒体类型当前是否有可用策略
type AvailabilityProbe interface {
	Supports(mt model.MediaType) bool
}

// SchedulerState 调度器状态
type SchedulerState int32

const (
	StateStopped SchedulerState = iota
	StateWaiting
	StateRunning
)

func (s SchedulerState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateRunning:
		return "running"
	}
	return "stopped"
}

// TypeSummary 单个媒体类型在一轮中的统计
type TypeSummary struct {
	MediaType model.MediaType
	Allocated int
	Processed int
	Succeeded int
	Failed    int
	Err       string
}

// PassSummary 一轮补全的统计
type PassSummary struct {
	StartedAt       time.Time
	Duration        time.Duration
	Types           []TypeSummary
	Processed       int
	Succeeded       int
	Failed          int
	Skipped         bool // 没有可用的媒体类型
	BudgetExhausted bool // 超过最大运行时间提前结束
	Cancelled       bool
}

// EnrichmentScheduler 后台补全调度器
//
// 单一工作协程：按 cron 表达式唤醒，每轮按媒体类型的枚举顺序依次处理，
// 实体之间按 requests_per_minute 休眠，总时长不超过 max_runtime_minutes。
type EnrichmentScheduler struct {
	store    CatalogStore
	enricher Enricher
	probe    AvailabilityProbe
	log      *logger.Logger

	mu       sync.RWMutex
	cfg      config.SchedulerConfig
	schedule cron.Schedule

	state  atomic.Int32
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewEnrichmentScheduler 创建调度器
func NewEnrichmentScheduler(cfg config.SchedulerConfig, store CatalogStore, enricher Enricher, probe AvailabilityProbe, log *logger.Logger) (*EnrichmentScheduler, error) {
	schedule, err := config.CronParser.Parse(cfg.Cron)
	if err != nil {
		return nil, fmt.Errorf("解析调度表达式 %q 失败: %w", cfg.Cron, err)
	}

	return &EnrichmentScheduler{
		store:    store,
		enricher: enricher,
		probe:    probe,
		log:      log,
		cfg:      cfg,
		schedule: schedule,
		now:      time.Now,
		sleep:    sleepContext,
	}, nil
}

// UpdateConfig 热更新配置，从下一次计算调度时间和下一轮开始生效
func (s *EnrichmentScheduler) UpdateConfig(cfg config.SchedulerConfig) error {
	schedule, err := config.CronParser.Parse(cfg.Cron)
	if err != nil {
		return fmt.Errorf("解析调度表达式 %q 失败: %w", cfg.Cron, err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.schedule = schedule
	s.mu.Unlock()

	s.log.Infof("补全调度配置已更新: cron=%s batch=%d rpm=%d max_runtime=%dm",
		cfg.Cron, cfg.BatchSize, cfg.RequestsPerMinute, cfg.MaxRuntimeMinutes)
	return nil
}

func (s *EnrichmentScheduler) current() (config.SchedulerConfig, cron.Schedule) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.schedule
}

// State 当前状态
func (s *EnrichmentScheduler) State() SchedulerState {
	return SchedulerState(s.state.Load())
}

func (s *EnrichmentScheduler) setState(state SchedulerState) {
	s.state.Store(int32(state))
}

// Start 在后台协程中运行调度循环
func (s *EnrichmentScheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()

	s.log.Info("补全调度服务已启动")
}

// Stop 取消调度循环并等待退出，当前休眠立即中断
func (s *EnrichmentScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("补全调度服务已停止")
}

// Run 阻塞运行调度循环，直到 ctx 取消或调度表达式不再有下一次触发时间
func (s *EnrichmentScheduler) Run(ctx context.Context) {
	defer s.setState(StateStopped)

	for ctx.Err() == nil {
		if !s.iterate(ctx) {
			return
		}
	}
}

// iterate 等待下一次触发并执行一轮；返回 false 表示应当退出循环
func (s *EnrichmentScheduler) iterate(ctx context.Context) (next bool) {
	defer func() {
		if r := recover(); r != nil {
			cfg, _ := s.current()
			backoff := time.Duration(cfg.ErrorBackoffSeconds) * time.Second
			if backoff <= 0 {
				backoff = DefaultErrorBackoff
			}
			s.log.Errorf("补全调度循环发生异常: %v，%s 后重试", r, backoff)
			s.setState(StateWaiting)
			next = s.sleep(ctx, backoff) == nil
		}
	}()

	_, schedule := s.current()
	now := s.now()
	wake := schedule.Next(now)
	if wake.IsZero() {
		s.log.Warn("调度表达式没有下一次触发时间，停止补全调度")
		return false
	}

	s.setState(StateWaiting)
	s.log.Infof("下一次补全将在 %s 开始", wake.Format("2006-01-02 15:04:05"))
	if err := s.sleep(ctx, wake.Sub(now)); err != nil {
		return false
	}

	s.RunPass(ctx)
	return ctx.Err() == nil
}

// RunPass 执行一轮补全
func (s *EnrichmentScheduler) RunPass(ctx context.Context) PassSummary {
	cfg, _ := s.current()
	summary := PassSummary{StartedAt: s.now()}

	s.setState(StateRunning)
	defer s.setState(StateWaiting)

	var available []model.MediaType
	for _, mt := range model.MediaTypes() {
		if s.probe.Supports(mt) {
			available = append(available, mt)
		}
	}
	if len(available) == 0 {
		s.log.Warn("没有可用的查找策略，跳过本轮补全")
		summary.Skipped = true
		return summary
	}

	budget := time.Duration(cfg.MaxRuntimeMinutes) * time.Minute
	delay := requestDelay(cfg.RequestsPerMinute)
	allocations := AllocateBatch(cfg.BatchSize, len(available))
	s.log.Infof("开始补全: 类型=%v 分配=%v 最长运行=%s 间隔=%s", available, allocations, budget, delay)

	for i, mt := range available {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		if s.now().Sub(summary.StartedAt) >= budget {
			summary.BudgetExhausted = true
			break
		}

		ts := s.processType(ctx, mt, allocations[i], summary.StartedAt, budget, delay)
		summary.Types = append(summary.Types, ts)
		summary.Processed += ts.Processed
		summary.Succeeded += ts.Succeeded
		summary.Failed += ts.Failed
	}

	if ctx.Err() != nil {
		summary.Cancelled = true
	} else if !summary.BudgetExhausted && s.now().Sub(summary.StartedAt) >= budget {
		summary.BudgetExhausted = true
	}
	summary.Duration = s.now().Sub(summary.StartedAt)

	for _, ts := range summary.Types {
		s.log.Infof("补全 %s: 分配 %d，处理 %d，成功 %d，失败 %d", ts.MediaType, ts.Allocated, ts.Processed, ts.Succeeded, ts.Failed)
	}
	s.log.Infof("本轮补全结束: 处理 %d，成功 %d，失败 %d，耗时 %s，超时=%v，取消=%v",
		summary.Processed, summary.Succeeded, summary.Failed, summary.Duration.Round(time.Second), summary.BudgetExhausted, summary.Cancelled)
	return summary
}

// processType 处理单个媒体类型，异常只影响该类型
func (s *EnrichmentScheduler) processType(ctx context.Context, mt model.MediaType, limit int, started time.Time, budget, delay time.Duration) (ts TypeSummary) {
	ts = TypeSummary{MediaType: mt, Allocated: limit}
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("补全 %s 时发生异常: %v", mt, r)
			ts.Err = fmt.Sprint(r)
		}
	}()

	if limit <= 0 {
		return ts
	}

	entities, err := s.store.FindNeedingEnrichment(ctx, mt, limit)
	if err != nil {
		s.log.Errorf("查询待补全的 %s 失败: %v", mt, err)
		ts.Err = err.Error()
		return ts
	}
	if len(entities) == 0 {
		s.log.Debugf("没有待补全的 %s", mt)
		return ts
	}

	for _, entity := range entities {
		if ctx.Err() != nil || s.now().Sub(started) >= budget {
			return ts
		}

		ok := s.processEntity(ctx, mt, entity)
		if ctx.Err() != nil {
			return ts
		}
		ts.Processed++
		if ok {
			ts.Succeeded++
		} else {
			ts.Failed++
		}

		if err := s.sleep(ctx, delay); err != nil {
			return ts
		}
	}
	return ts
}

// processEntity 补全单个实体并写入尝试记录，异常时尽量记录为失败
func (s *EnrichmentScheduler) processEntity(ctx context.Context, mt model.MediaType, entity model.Enrichable) (succeeded bool) {
	id := entity.EntityID()
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("补全 %s %s 时发生异常: %v", mt, id, r)
			s.recordFailure(ctx, mt, id, fmt.Sprintf("unexpected error: %v", r))
			succeeded = false
		}
	}()

	outcome := s.enricher.Enrich(ctx, entity)
	if ctx.Err() != nil {
		// 被取消的尝试不记录，下次仍会被选中
		return false
	}

	attempt := outcome.Attempt(s.now())
	if err := s.store.UpdateAttempt(ctx, mt, id, attempt, outcome.SavedImage); err != nil {
		s.log.Errorf("保存 %s %s 的补全记录失败: %v", mt, id, err)
		return false
	}

	if !outcome.Success {
		s.log.Infof("补全 %s %s 失败 (永久=%v): %s", mt, id, outcome.PermanentFailure, outcome.ErrorMessage)
	}
	return outcome.Success
}

func (s *EnrichmentScheduler) recordFailure(ctx context.Context, mt model.MediaType, id, reason string) {
	if id == "" || ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("记录 %s %s 的失败状态时发生异常: %v", mt, id, r)
		}
	}()

	now := s.now()
	attempt := model.EnrichmentAttempt{AttemptedAt: &now, FailureReason: &reason}
	if err := s.store.UpdateAttempt(ctx, mt, id, attempt, nil); err != nil {
		s.log.Errorf("记录 %s %s 的失败状态失败: %v", mt, id, err)
	}
}

// AllocateBatch 把 batch 平均分给 n 个类型，余数依次多分给前面的类型
func AllocateBatch(batch, n int) []int {
	if n <= 0 {
		return nil
	}
	if batch < 0 {
		batch = 0
	}

	allocations := make([]int, n)
	base, remainder := batch/n, batch%n
	for i := range allocations {
		allocations[i] = base
		if i < remainder {
			allocations[i]++
		}
	}
	return allocations
}

// requestDelay 每个实体之后的休眠时间：60000/rpm 毫秒
func requestDelay(rpm int) time.Duration {
	if rpm <= 0 {
		return 0
	}
	return time.Duration(60000/rpm) * time.Millisecond
}

// sleepContext 可被 ctx 立即中断的休眠
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
