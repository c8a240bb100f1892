// Package enrich 单个目录实体的补全策略：已有图片地址优先，否则查找元数据并下载封面
package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"mediashelf/app/logger"
	"mediashelf/app/lookup"
	"mediashelf/app/model"

	"go.uber.org/zap"
)

// 失败原因会持久化到实体上
const (
	ReasonMissingIdentity   = "entity has no identity"
	ReasonMissingIdentifier = "entity lacks required lookup identifier"
	ReasonNoLookupResult    = "no image URL returned from lookup"
	ReasonNoImageURL        = "no image URL returned"
)

// Outcome 一次补全尝试的结果，调度器据此写入尝试记录
type Outcome struct {
	Success          bool
	ImageURL         string
	SavedImage       *model.ImageMetadata
	ErrorMessage     string
	PermanentFailure bool
}

// Attempt 转换为持久化的尝试记录
func (o Outcome) Attempt(at time.Time) model.EnrichmentAttempt {
	attempt := model.EnrichmentAttempt{
		AttemptedAt:      &at,
		PermanentFailure: !o.Success && o.PermanentFailure,
	}
	if !o.Success {
		reason := o.ErrorMessage
		if reason == "" {
			reason = "unknown failure"
		}
		attempt.FailureReason = &reason
	}
	return attempt
}

func success(url string, image *model.ImageMetadata) Outcome {
	return Outcome{Success: true, ImageURL: url, SavedImage: image}
}

func permanent(reason string) Outcome {
	return Outcome{ErrorMessage: reason, PermanentFailure: true}
}

func transient(url, reason string) Outcome {
	return Outcome{ImageURL: url, ErrorMessage: reason}
}

// StrategySource 按组合查找策略
type StrategySource interface {
	Get(mt model.MediaType, it model.IdentifierType) (lookup.Strategy, bool)
}

// ImageSaver 下载并保存封面
type ImageSaver interface {
	SaveFromURL(ctx context.Context, url string, mt model.MediaType, entityID string) (*model.ImageMetadata, error)
}

// Orchestrator 补全编排器，不返回错误，所有失败都转换为 Outcome
type Orchestrator struct {
	strategies StrategySource
	images     ImageSaver
	log        *logger.Logger
}

// NewOrchestrator 创建编排器
func NewOrchestrator(strategies StrategySource, images ImageSaver, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		strategies: strategies,
		images:     images,
		log:        log,
	}
}

// Enrich 对单个实体执行一次补全
func (o *Orchestrator) Enrich(ctx context.Context, entity model.Enrichable) Outcome {
	id := strings.TrimSpace(entity.EntityID())
	if id == "" {
		return permanent(ReasonMissingIdentity)
	}
	mt := entity.MediaType()
	log := o.log.With(zap.String("media", mt.String()), zap.String("id", id))

	if existing := strings.TrimSpace(entity.ExistingImageURL()); existing != "" {
		image, err := o.images.SaveFromURL(ctx, existing, mt, id)
		if err == nil {
			log.Info("已使用实体自带的图片地址", zap.String("url", existing))
			return success(existing, image)
		}
		log.Warn("自带图片地址下载失败，改为查找元数据", zap.String("url", existing), zap.Error(err))
	}

	key := entity.LookupKey()
	value := strings.TrimSpace(key.Value)
	if value == "" {
		return permanent(ReasonMissingIdentifier)
	}
	it := ClassifyIdentifier(key.Kind, value)

	strategy, ok := o.strategies.Get(mt, it)
	if !ok {
		return permanent(fmt.Sprintf("unsupported combination: %s/%s", mt, it))
	}

	result, err := strategy.Lookup(ctx, it, value)
	if err != nil {
		if errors.Is(err, lookup.ErrUnsupported) {
			return permanent(err.Error())
		}
		log.Warn("元数据查找失败", zap.String("identifier", it.String()), zap.String("value", value), zap.Error(err))
		return transient("", fmt.Sprintf("lookup failed: %v", err))
	}
	if result == nil {
		return transient("", ReasonNoLookupResult)
	}

	url := strings.TrimSpace(result.CoverImageURL())
	if url == "" {
		return transient("", ReasonNoImageURL)
	}

	image, err := o.images.SaveFromURL(ctx, url, mt, id)
	if err != nil {
		log.Warn("封面下载失败", zap.String("url", url), zap.Error(err))
		return transient(url, fmt.Sprintf("image download failed: %v", err))
	}

	log.Info("封面补全成功", zap.String("url", url), zap.String("path", image.Path))
	return success(url, image)
}

// ClassifyIdentifier 书籍固定为 isbn；条码 13 位数字为 ean，否则为 upc
func ClassifyIdentifier(kind model.IdentifierKind, value string) model.IdentifierType {
	if kind == model.IdentifierKindISBN {
		return model.IdentifierISBN
	}
	if len(value) == 13 && strings.IndexFunc(value, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return model.IdentifierEAN
	}
	return model.IdentifierUPC
}
