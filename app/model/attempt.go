package model

import "time"

// EnrichmentAttempt 补全尝试记录，只由编排器产生、由调度器写入
//
// AttemptedAt 非空即表示已尝试过，"待补全"查询不会再选中该实体，
// PermanentFailure 为真时必须外部重置才会再次处理。
type EnrichmentAttempt struct {
	AttemptedAt      *time.Time `gorm:"index;comment:最近一次补全尝试时间" json:"attempted_at"`
	FailureReason    *string    `gorm:"type:text;comment:失败原因" json:"failure_reason"`
	PermanentFailure bool       `gorm:"default:false;comment:是否永久失败" json:"permanent_failure"`
}

// Attempted 是否已经尝试过
func (a EnrichmentAttempt) Attempted() bool {
	return a.AttemptedAt != nil
}

// Failed 是否为失败的尝试
func (a EnrichmentAttempt) Failed() bool {
	return a.FailureReason != nil
}

// Reason 返回失败原因，成功时为空字符串
func (a EnrichmentAttempt) Reason() string {
	if a.FailureReason == nil {
		return ""
	}
	return *a.FailureReason
}
