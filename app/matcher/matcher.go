// Package matcher 在搜索结果中挑选与清洗后标题最接近的候选
package matcher

import (
	"strings"

	"golang.org/x/text/cases"
)

// LowConfidenceThreshold 最高分低于该值时放弃排序，退回第一个候选
const LowConfidenceThreshold = 0.5

const (
	scoreExact    = 1.0
	scoreContains = 0.9
)

// Candidate 搜索结果，只作为打分输入
type Candidate struct {
	ID              string
	Name            string
	ReleaseDateHint string
	DetailReference string
}

// Score 计算候选名与查询标题的相似度，范围 [0, 1]
func Score(name, query string) float64 {
	fold := cases.Fold()
	n := strings.TrimSpace(fold.String(name))
	q := strings.TrimSpace(fold.String(query))
	if n == "" || q == "" {
		return 0
	}

	if n == q {
		return scoreExact
	}
	if strings.Contains(n, q) {
		return scoreContains
	}

	queryTokens := tokenize(q)
	nameTokens := tokenize(n)
	if len(queryTokens) == 0 || len(nameTokens) == 0 {
		return 0
	}

	matched := 0
	for _, qt := range queryTokens {
		for _, nt := range nameTokens {
			if strings.Contains(nt, qt) || strings.Contains(qt, nt) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '-', ':', '.':
			return true
		}
		return false
	})
}

// Best 返回得分最高的候选；同分取靠前者。
// 最高分低于 LowConfidenceThreshold 时返回第一个候选，ok 仅在列表为空时为 false。
func Best(candidates []Candidate, query string) (best Candidate, score float64, ok bool) {
	switch len(candidates) {
	case 0:
		return Candidate{}, 0, false
	case 1:
		return candidates[0], Score(candidates[0].Name, query), true
	}

	bestIdx, bestScore := 0, -1.0
	for i, c := range candidates {
		if s := Score(c.Name, query); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}

	if bestScore < LowConfidenceThreshold {
		return candidates[0], Score(candidates[0].Name, query), true
	}
	return candidates[bestIdx], bestScore, true
}
