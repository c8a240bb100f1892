package normalize

import (
	"regexp"
	"strings"
)

// 转售标记（Pre-Played 等）不是版本，直接丢弃
var (
	gameEdition         = regexp.MustCompile(`(?i)\b(?:(Deluxe|GOTY|Game of the Year|Definitive|Complete|Ultimate)(?:\s+Edition)?|(Collector['’]?s\s+Edition))\b`)
	gameResale          = regexp.MustCompile(`(?i)\b(?:Pre-?Played|Pre-?Owned|Greatest Hits|Platinum Hits|Player['’]?s Choice|Nintendo Selects|Essentials|Used)\b`)
	gamePlatformToken   = regexp.MustCompile(`(?i)\b(?:PS5|PS4|PS3|PS2|PlayStation\s*[1-5]?|Xbox\s+Series\s+[XS](?:\s*[|/]\s*S)?|Xbox\s+One(?:\s+[XS])?|Xbox\s+360|Xbox|Nintendo\s+Switch(?:\s+2)?|Switch|Wii\s*U|Wii|Nintendo\s+3DS|3DS|Nintendo\s+DS|NDS|DS|GameCube|Game\s*Boy(?:\s+(?:Advance|Colou?r))?|GBA|PC)\b`)
	gameFormatQualifier = regexp.MustCompile(`(?i)\b(?:Physical\s+)?(?:Cartridge|Game\s+Disc|Disc|Blu-?ray|DVD|Digital(?:\s+(?:Code|Download))?|Download\s+Code)\b`)
	trailingSKU         = regexp.MustCompile(`\s*\b[A-Z0-9]{3,}-[A-Z0-9]{2,}\s*$`)
)

// gameFormats 按顺序匹配原始标题中的介质关键词
var gameFormats = []struct {
	pattern *regexp.Regexp
	format  string
}{
	{regexp.MustCompile(`(?i)\bcartridge\b`), "Cartridge"},
	{regexp.MustCompile(`(?i)\bblu-?ray\b`), "Blu-ray Disc"},
	{regexp.MustCompile(`(?i)\bDVD\b`), "DVD"},
	{regexp.MustCompile(`(?i)\bdisc\b`), "Disc"},
	{regexp.MustCompile(`(?i)\b(?:digital|download)\b`), "Digital"},
}

// GameTitle 清洗后的游戏标题与版本
type GameTitle struct {
	Title   string
	Edition string
}

// DisplayTitle 展示用标题，版本非空时追加在括号中
func (g GameTitle) DisplayTitle() string {
	if g.Edition == "" {
		return g.Title
	}
	return g.Title + " (" + g.Edition + ")"
}

// CleanGameTitle 提取版本并去掉平台、介质、转售标记与结尾的 SKU
//
//	"Cyberpunk 2077 Deluxe Edition" -> {"Cyberpunk 2077", "Deluxe"}
//	"Black - Pre-Played"            -> {"Black", ""}
func CleanGameTitle(raw string) GameTitle {
	s := collapseSpaces(raw)

	var edition, editionText string
	if m := gameEdition.FindStringSubmatch(s); m != nil {
		editionText = m[0]
		edition = m[1]
		if edition == "" {
			edition = m[2]
		}
	}

	s = gameResale.ReplaceAllString(s, " ")
	s = gamePlatformToken.ReplaceAllString(s, " ")
	s = gameFormatQualifier.ReplaceAllString(s, " ")
	s = trailingSKU.ReplaceAllString(s, "")
	if editionText != "" {
		s = strings.Replace(s, editionText, " ", 1)
	}

	s = fixedPoint(s, func(s string) string {
		s = emptyBrackets.ReplaceAllString(s, " ")
		s = repeatedDashes.ReplaceAllString(s, " - ")
		return trimSeparators(collapseSpaces(s))
	})

	return GameTitle{Title: s, Edition: edition}
}

// ExtractGameFormat 在原始标题中直接查找介质关键词，找不到返回空串
func ExtractGameFormat(raw string) string {
	for _, f := range gameFormats {
		if f.pattern.MatchString(raw) {
			return f.format
		}
	}
	return ""
}

// ForGame 由条码服务的原始字段生成游戏查询
func ForGame(raw, category, brand, model string) Query {
	title := CleanGameTitle(raw)
	return Query{
		Title:    title.Title,
		Edition:  title.Edition,
		Format:   ExtractGameFormat(raw),
		Platform: ExtractPlatform(raw, category, brand, model),
	}
}
