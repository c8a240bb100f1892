package normalize

import (
	"regexp"
	"strings"
)

// platformRules 顺序即优先级：具体型号排在系列通称之前
var platformRules = []struct {
	pattern  *regexp.Regexp
	platform string
}{
	{regexp.MustCompile(`(?i)\bPS5\b|PlayStation\s*5`), "PlayStation 5"},
	{regexp.MustCompile(`(?i)\bPS4\b|PlayStation\s*4`), "PlayStation 4"},
	{regexp.MustCompile(`(?i)\bPS3\b|PlayStation\s*3`), "PlayStation 3"},
	{regexp.MustCompile(`(?i)\bPS2\b|PlayStation\s*2`), "PlayStation 2"},
	{regexp.MustCompile(`(?i)\bPS Vita\b|PlayStation\s*Vita|\bPSV\b`), "PlayStation Vita"},
	{regexp.MustCompile(`(?i)\bPSP\b|PlayStation\s*Portable`), "PlayStation Portable"},
	{regexp.MustCompile(`(?i)Xbox\s*Series`), "Xbox Series X|S"},
	{regexp.MustCompile(`(?i)Xbox\s*One`), "Xbox One"},
	{regexp.MustCompile(`(?i)Xbox\s*360`), "Xbox 360"},
	{regexp.MustCompile(`(?i)Nintendo\s*Switch|\bSwitch\b`), "Nintendo Switch"},
	{regexp.MustCompile(`(?i)\bWii\s*U\b`), "Wii U"},
	{regexp.MustCompile(`(?i)\bWii\b`), "Wii"},
	{regexp.MustCompile(`(?i)\b(?:Nintendo\s*)?3DS\b`), "Nintendo 3DS"},
	{regexp.MustCompile(`(?i)\bNintendo\s*DS\b|\bNDS\b|\bDS\b`), "Nintendo DS"},
	{regexp.MustCompile(`(?i)Game\s*Cube`), "GameCube"},
	{regexp.MustCompile(`(?i)Game\s*Boy\s*Advance|\bGBA\b`), "Game Boy Advance"},
	{regexp.MustCompile(`(?i)Game\s*Boy\s*Colou?r|\bGBC\b`), "Game Boy Color"},
	{regexp.MustCompile(`(?i)Game\s*Boy`), "Game Boy"},
	{regexp.MustCompile(`(?i)Nintendo\s*64|\bN64\b`), "Nintendo 64"},
	{regexp.MustCompile(`(?i)PlayStation|\bPSX?\b|\bPS1\b`), "PlayStation"},
	{regexp.MustCompile(`(?i)\bXbox\b`), "Xbox"},
	{regexp.MustCompile(`(?i)\bPC\b|\bWindows\b`), "PC"},
}

var (
	cartridgePlatforms = regexp.MustCompile(`(?i)switch|3ds|\bds\b|game\s*boy|nintendo 64|\bn64\b|\bsnes\b|super nintendo|\bnes\b|nintendo entertainment system|genesis|mega drive`)
	blurayPlatforms    = regexp.MustCompile(`(?i)playstation\s*[345]|xbox\s*series|xbox\s*one`)
	dvdPlatforms       = regexp.MustCompile(`(?i)playstation\s*2|xbox\s*360|^xbox$`)
)

// ExtractPlatform 先匹配标题，再匹配 category+brand+model 拼接的文本，找不到返回空串
func ExtractPlatform(title, category, brand, model string) string {
	if platform := matchPlatform(title); platform != "" {
		return platform
	}
	return matchPlatform(strings.Join([]string{category, brand, model}, " "))
}

func matchPlatform(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	for _, rule := range platformRules {
		if rule.pattern.MatchString(s) {
			return rule.platform
		}
	}
	return ""
}

// FormatFromPlatform 标题里没有介质信息时，根据平台推断介质
//
// detected 与详情中的平台名/缩写先精确匹配，再做双向子串匹配，命中的平台名用于分类；
// 都没命中时直接按 detected 分类。detected 为空返回空串。
func FormatFromPlatform(detected string, platforms []PlatformName) string {
	if strings.TrimSpace(detected) == "" {
		return ""
	}

	d := fold(strings.TrimSpace(detected))
	matchers := []func(c string) bool{
		func(c string) bool { return c == d },
		func(c string) bool { return strings.Contains(c, d) },
		func(c string) bool { return strings.Contains(d, c) },
	}
	// 精确匹配优先，避免 "Xbox" 抢先命中 "Xbox Series X|S"
	for _, match := range matchers {
		for _, p := range platforms {
			for _, candidate := range []string{p.Name, p.Abbreviation} {
				c := fold(strings.TrimSpace(candidate))
				if c != "" && match(c) {
					return CategorizePlatform(p.Name)
				}
			}
		}
	}
	return CategorizePlatform(detected)
}

// PlatformName 详情接口返回的平台
type PlatformName struct {
	Name         string
	Abbreviation string
}

// CategorizePlatform 把平台名归入卡带或光盘介质；PC 实体版按光盘处理
func CategorizePlatform(platform string) string {
	switch {
	case blurayPlatforms.MatchString(platform):
		return "Blu-ray Disc"
	case dvdPlatforms.MatchString(platform):
		return "DVD"
	case cartridgePlatforms.MatchString(platform):
		return "Cartridge"
	}
	return "Disc"
}
