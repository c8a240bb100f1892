package store

import (
	"context"
	"errors"
	"fmt"

	"mediashelf/app/model"

	"gorm.io/gorm"
)

// needsEnrichment 唯一的"待补全"条件：既没有封面也没有任何尝试记录
const needsEnrichment = "(cover_path IS NULL OR cover_path = '') AND enrichment_attempted_at IS NULL"

// ErrNotFound 实体不存在
var ErrNotFound = errors.New("实体不存在")

// CatalogStore 目录实体存储，只读写封面与补全尝试字段
type CatalogStore struct {
	db *gorm.DB
}

// New 创建目录存储
func New(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// FindNeedingEnrichment 按创建顺序返回最多 limit 个待补全实体
func (s *CatalogStore) FindNeedingEnrichment(ctx context.Context, mt model.MediaType, limit int) ([]model.Enrichable, error) {
	if limit <= 0 {
		return nil, nil
	}

	switch mt {
	case model.MediaTypeBook:
		return findNeeding[model.Book](ctx, s.db, limit)
	case model.MediaTypeMovie:
		return findNeeding[model.Movie](ctx, s.db, limit)
	case model.MediaTypeGame:
		return findNeeding[model.Game](ctx, s.db, limit)
	case model.MediaTypeMusic:
		return findNeeding[model.Music](ctx, s.db, limit)
	}
	return nil, fmt.Errorf("未知的媒体类型: %s", mt)
}

func findNeeding[T model.Enrichable](ctx context.Context, db *gorm.DB, limit int) ([]model.Enrichable, error) {
	var rows []T
	err := db.WithContext(ctx).
		Where(needsEnrichment).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询待补全实体失败: %w", err)
	}

	entities := make([]model.Enrichable, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, row)
	}
	return entities, nil
}

// UpdateAttempt 写入一次补全尝试的结果，image 非空时同时写入封面
func (s *CatalogStore) UpdateAttempt(ctx context.Context, mt model.MediaType, id string, attempt model.EnrichmentAttempt, image *model.ImageMetadata) error {
	m, ok := model.NewCatalogModel(mt)
	if !ok {
		return fmt.Errorf("未知的媒体类型: %s", mt)
	}

	updates := map[string]any{
		"enrichment_attempted_at":      attempt.AttemptedAt,
		"enrichment_failure_reason":    attempt.FailureReason,
		"enrichment_permanent_failure": attempt.PermanentFailure,
	}
	if image != nil && !image.IsZero() {
		updates["cover_path"] = image.Path
		updates["cover_source_url"] = image.SourceURL
		updates["cover_content_type"] = image.ContentType
		updates["cover_width"] = image.Width
		updates["cover_height"] = image.Height
		updates["cover_size"] = image.Size
		updates["cover_saved_at"] = image.SavedAt
	}

	result := s.db.WithContext(ctx).Model(m).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("更新补全记录失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %s: %w", mt, id, ErrNotFound)
	}
	return nil
}

// ResetOptions 重置范围
type ResetOptions struct {
	ID            string // 为空表示该类型全部实体
	TransientOnly bool   // 只重置非永久失败的记录
}

// ResetAttempts 清除补全尝试记录，使实体重新满足"待补全"条件
func (s *CatalogStore) ResetAttempts(ctx context.Context, mt model.MediaType, opts ResetOptions) (int64, error) {
	m, ok := model.NewCatalogModel(mt)
	if !ok {
		return 0, fmt.Errorf("未知的媒体类型: %s", mt)
	}

	query := s.db.WithContext(ctx).Model(m).Where("enrichment_attempted_at IS NOT NULL")
	if opts.ID != "" {
		query = query.Where("id = ?", opts.ID)
	}
	if opts.TransientOnly {
		query = query.Where("enrichment_failure_reason IS NOT NULL AND enrichment_permanent_failure = ?", false)
	}

	result := query.Updates(map[string]any{
		"enrichment_attempted_at":      nil,
		"enrichment_failure_reason":    nil,
		"enrichment_permanent_failure": false,
	})
	if result.Error != nil {
		return 0, fmt.Errorf("重置补全记录失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Stats 单个媒体类型的补全统计
type Stats struct {
	MediaType model.MediaType
	Total     int64
	WithCover int64
	Attempted int64
	Failed    int64
	Permanent int64
	Pending   int64
}

// Stats 统计某个媒体类型的补全进度
func (s *CatalogStore) Stats(ctx context.Context, mt model.MediaType) (Stats, error) {
	stats := Stats{MediaType: mt}
	m, ok := model.NewCatalogModel(mt)
	if !ok {
		return stats, fmt.Errorf("未知的媒体类型: %s", mt)
	}

	counts := []struct {
		dst   *int64
		where string
		args  []any
	}{
		{dst: &stats.Total},
		{dst: &stats.WithCover, where: "cover_path IS NOT NULL AND cover_path <> ''"},
		{dst: &stats.Attempted, where: "enrichment_attempted_at IS NOT NULL"},
		{dst: &stats.Failed, where: "enrichment_failure_reason IS NOT NULL"},
		{dst: &stats.Permanent, where: "enrichment_permanent_failure = ?", args: []any{true}},
		{dst: &stats.Pending, where: needsEnrichment},
	}
	for _, c := range counts {
		query := s.db.WithContext(ctx).Model(m)
		if c.where != "" {
			query = query.Where(c.where, c.args...)
		}
		if err := query.Count(c.dst).Error; err != nil {
			return stats, fmt.Errorf("统计 %s 失败: %w", mt, err)
		}
	}
	return stats, nil
}

// Create 新增目录实体，entity 必须是模型指针
func (s *CatalogStore) Create(ctx context.Context, entity model.Enrichable) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("创建 %s 失败: %w", entity.MediaType(), err)
	}
	return nil
}

// Get 按主键读取实体
func (s *CatalogStore) Get(ctx context.Context, mt model.MediaType, id string) (model.Enrichable, error) {
	switch mt {
	case model.MediaTypeBook:
		return get[model.Book](ctx, s.db, id)
	case model.MediaTypeMovie:
		return get[model.Movie](ctx, s.db, id)
	case model.MediaTypeGame:
		return get[model.Game](ctx, s.db, id)
	case model.MediaTypeMusic:
		return get[model.Music](ctx, s.db, id)
	}
	return nil, fmt.Errorf("未知的媒体类型: %s", mt)
}

func get[T model.Enrichable](ctx context.Context, db *gorm.DB, id string) (model.Enrichable, error) {
	var row T
	err := db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}
