// Package provider 外部元数据服务的公共部分：HTTP 客户端、限流与错误分类
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

// ErrRateLimited 服务端返回 429 或业务层限流，属于可重试的临时错误
var ErrRateLimited = errors.New("请求过于频繁，已被限流")

// StatusError 非 2xx 且非 404/429 的响应
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s 请求失败，状态码: %d, 响应: %s", e.Provider, e.StatusCode, e.Body)
}

// NewClient 创建带基础地址、超时与 User-Agent 的 resty 客户端
func NewClient(baseURL string, timeout time.Duration, userAgent string) *resty.Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	client.SetHeader("Accept", "application/json")
	return client
}

// Check 检查响应状态；404 返回 found=false 且无错误，表示"无数据"
func Check(name string, resp *resty.Response) (found bool, err error) {
	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return false, nil
	case code == http.StatusTooManyRequests:
		return false, fmt.Errorf("%s: %w", name, ErrRateLimited)
	case code < 200 || code > 299:
		body := resp.String()
		if len(body) > 256 {
			body = body[:256]
		}
		return false, &StatusError{Provider: name, StatusCode: code, Body: body}
	}
	return true, nil
}

// Wait 在发送请求前等待限流令牌，limiter 为空时不限流
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// PerMinute 每分钟 n 次的限流器
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// PerHour 每小时 n 次的限流器
func PerHour(n int) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Hour/time.Duration(n)), 1)
}

// Seconds 把配置中的秒数转换为 Duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
