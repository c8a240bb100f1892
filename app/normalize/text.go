// Package normalize 把条码服务返回的原始商品标题清洗成可搜索的标题，
// 并从中提取介质格式、版本与平台
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// maxCleanPasses 反复清洗的上限，防止无法收敛的输入死循环
const maxCleanPasses = 10

var (
	// 大写的成色词，只在结尾出现
	conditionSuffix = regexp.MustCompile(`\s*\b(?:LIKE NEW|NEW|USED|SEALED|MINT|OPENED)\s*$`)
	parenSpan       = regexp.MustCompile(`\([^()]*\)`)
	bracketSpan     = regexp.MustCompile(`\[[^\[\]]*\]`)
	emptyBrackets   = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	whitespace      = regexp.MustCompile(`\s+`)
	repeatedDashes  = regexp.MustCompile(`(?:\s*-\s*){2,}`)
)

// Query 清洗后的查询，只在一次查找内使用
type Query struct {
	Title    string
	Format   string
	Platform string
	Edition  string
}

// Query 可读形式，用于日志
func (q Query) String() string {
	parts := []string{q.Title}
	for _, extra := range []string{q.Format, q.Platform, q.Edition} {
		if extra != "" {
			parts = append(parts, extra)
		}
	}
	return strings.Join(parts, " | ")
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// trimSeparators 去掉首尾残留的分隔符
func trimSeparators(s string) string {
	return strings.Trim(s, " \t-:,/|")
}

// fixedPoint 反复应用 step 直到结果不再变化
func fixedPoint(s string, step func(string) string) string {
	for i := 0; i < maxCleanPasses; i++ {
		next := step(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

// fold 大小写折叠，Caser 有状态，每次调用单独创建
func fold(s string) string {
	return cases.Fold().String(s)
}
