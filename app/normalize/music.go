package normalize

import (
	"regexp"
	"strings"
)

var (
	musicFormatSuffix = regexp.MustCompile(`(?i)\s+-\s+(?:CD|Vinyl|LP|Cassette|Tape|Digital|MP3)\b.*$`)
	musicFormatToken  = regexp.MustCompile(`(?i)\b(CD|Compact Disc|Vinyl|LP|Cassette|Tape|Digital|MP3)\b`)
)

// CleanMusicTitle 去掉成色词、括号内容和结尾的介质后缀
func CleanMusicTitle(raw string) string {
	return fixedPoint(collapseSpaces(raw), func(s string) string {
		s = conditionSuffix.ReplaceAllString(s, "")
		s = parenSpan.ReplaceAllString(s, " ")
		s = bracketSpan.ReplaceAllString(s, " ")
		s = musicFormatSuffix.ReplaceAllString(s, "")
		return trimSeparators(collapseSpaces(s))
	})
}

// ExtractMusicFormat 取原始标题中最靠前的介质关键词
func ExtractMusicFormat(raw string) string {
	m := musicFormatToken.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	switch strings.ToUpper(m[1]) {
	case "CD", "COMPACT DISC":
		return "CD"
	case "VINYL", "LP":
		return "Vinyl"
	case "CASSETTE", "TAPE":
		return "Cassette"
	}
	return "Digital"
}

// ForMusic 由原始标题生成专辑查询
func ForMusic(raw string) Query {
	return Query{
		Title:  CleanMusicTitle(raw),
		Format: ExtractMusicFormat(raw),
	}
}
