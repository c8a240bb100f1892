package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"time"

	"mediashelf/app/config"
	"mediashelf/app/logger"
	"mediashelf/app/model"
	"mediashelf/app/utils/downloader"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Service 封面下载服务：下载 → 解码 → 按宽度缩放 → 统一转为 JPEG 保存
type Service struct {
	store FileStore
	cfg   config.ImagesConfig
	log   *logger.Logger
	now   func() time.Time
}

// New 创建封面服务
func New(store FileStore, cfg config.ImagesConfig, log *logger.Logger) *Service {
	return &Service{
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// CoverPath 封面的存储路径：<媒体类型>/<实体ID>.jpg
func CoverPath(mt model.MediaType, entityID string) string {
	return path.Join(string(mt), entityID+".jpg")
}

// SaveFromURL 下载图片并保存为实体封面
func (s *Service) SaveFromURL(ctx context.Context, url string, mt model.MediaType, entityID string) (*model.ImageMetadata, error) {
	if url == "" {
		return nil, fmt.Errorf("图片地址为空")
	}

	tmp, err := os.CreateTemp("", "mediashelf-cover-*")
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	dl := downloader.DefaultDownloadConfig()
	if s.cfg.UserAgent != "" {
		dl.UserAgent = s.cfg.UserAgent
	}
	if s.cfg.TimeoutSeconds > 0 {
		dl.Timeout = time.Duration(s.cfg.TimeoutSeconds) * time.Second
	}

	downloaded, err := downloader.DownloadFromURL(ctx, url, tmpPath, dl)
	if err != nil {
		return nil, fmt.Errorf("下载图片失败: %w", err)
	}

	format, err := sniffFormat(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("无法识别图片格式 (%s): %w", downloaded.ContentType, err)
	}

	img, err := imaging.Open(tmpPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}

	if s.cfg.MaxWidth > 0 && img.Bounds().Dx() > s.cfg.MaxWidth {
		img = imaging.Resize(img, s.cfg.MaxWidth, 0, imaging.Lanczos)
	}

	quality := s.cfg.JPEGQuality
	if quality <= 0 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("编码图片失败: %w", err)
	}

	rel := CoverPath(mt, entityID)
	size, err := s.store.Save(ctx, rel, &buf)
	if err != nil {
		return nil, fmt.Errorf("保存图片失败: %w", err)
	}

	savedAt := s.now()
	bounds := img.Bounds()
	s.log.Debugf("封面已保存: %s (%s %dx%d, 原始 %d bytes)", rel, format, bounds.Dx(), bounds.Dy(), downloaded.Size)

	return &model.ImageMetadata{
		Path:        rel,
		SourceURL:   url,
		ContentType: "image/jpeg",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Size:        size,
		SavedAt:     &savedAt,
	}, nil
}

// sniffFormat 只读取图片头部判断格式
func sniffFormat(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	return format, err
}
