package normalize

import (
	"regexp"
	"strings"
)

var (
	movieFormatSuffix = regexp.MustCompile(`(?i)\s+-\s+(?:DVD|Blu[- ]?ray|4K|BD|UHD|Digital|HD)\b.*$`)
	movieFormatToken  = regexp.MustCompile(`(?i)\b(?:4K|UHD|Blu[- ]?ray|BD|DVD|Digital)\b`)
	dashTail          = regexp.MustCompile(`\s-\s(.*)$`)
)

// CleanMovieTitle 去掉成色词、括号内容和结尾的介质后缀
//
//	"Akira (Widescreen) [DVD] NEW" -> "Akira"
func CleanMovieTitle(raw string) string {
	return fixedPoint(collapseSpaces(raw), func(s string) string {
		s = conditionSuffix.ReplaceAllString(s, "")
		s = parenSpan.ReplaceAllString(s, " ")
		s = bracketSpan.ReplaceAllString(s, " ")
		s = movieFormatSuffix.ReplaceAllString(s, "")
		return trimSeparators(collapseSpaces(s))
	})
}

// ExtractMovieFormat 依次在圆括号、方括号、破折号后查找介质格式，找不到返回空串
func ExtractMovieFormat(raw string) string {
	scopes := parenSpan.FindAllString(raw, -1)
	scopes = append(scopes, bracketSpan.FindAllString(raw, -1)...)
	if m := dashTail.FindStringSubmatch(raw); m != nil {
		scopes = append(scopes, m[1])
	}

	for _, scope := range scopes {
		if token := movieFormatToken.FindString(scope); token != "" {
			return canonicalMovieFormat(token)
		}
	}
	return ""
}

func canonicalMovieFormat(token string) string {
	t := strings.ToUpper(token)
	switch {
	case strings.Contains(t, "4K"), strings.Contains(t, "UHD"):
		return "4K UHD"
	case t == "BD", strings.HasPrefix(t, "BLU"):
		return "Blu-ray"
	case t == "DVD":
		return "DVD"
	case t == "DIGITAL":
		return "Digital"
	}
	return ""
}

// ForMovie 由原始标题生成影片查询
func ForMovie(raw string) Query {
	return Query{
		Title:  CleanMovieTitle(raw),
		Format: ExtractMovieFormat(raw),
	}
}
