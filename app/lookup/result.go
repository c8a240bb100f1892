package lookup

import "mediashelf/app/model"

// Result 一次成功查找的结果
type Result interface {
	MediaType() model.MediaType
	// CoverImageURL 用于下载封面的地址，可能为空
	CoverImageURL() string
}

// BookResult 图书查找结果
type BookResult struct {
	Title       string
	Subtitle    string
	Authors     []string
	Publishers  []string
	PublishDate string
	Pages       int
	Subjects    []string
	ISBN10      string
	ISBN13      string
	LCCN        string
	OCLC        string
	OLID        string
	ImageURL    string
}

func (r *BookResult) MediaType() model.MediaType { return model.MediaTypeBook }
func (r *BookResult) CoverImageURL() string      { return r.ImageURL }

// MovieResult 影片查找结果
type MovieResult struct {
	TMDBID      int64
	Title       string
	ReleaseDate string
	Genres      []string
	Studios     []string
	Rating      string // "7.5/10"，无评分时为空
	Runtime     int    // 分钟
	Plot        string
	Format      string
	ImageURL    string
}

func (r *MovieResult) MediaType() model.MediaType { return model.MediaTypeMovie }
func (r *MovieResult) CoverImageURL() string      { return r.ImageURL }

// GameResult 游戏查找结果
type GameResult struct {
	GUID        string
	Title       string // 含版本后缀
	Platform    string
	Format      string
	Rating      string
	Description string
	ReleaseDate string
	Genres      []string
	Developers  []string
	Publishers  []string
	ImageURL    string
}

func (r *GameResult) MediaType() model.MediaType { return model.MediaTypeGame }
func (r *GameResult) CoverImageURL() string      { return r.ImageURL }

// MusicResult 专辑查找结果
type MusicResult struct {
	ReleaseID   string
	Title       string
	Artist      string
	Label       string
	ReleaseDate string
	TrackCount  int
	Genres      []string
	Format      string
	ImageURL    string
}

func (r *MusicResult) MediaType() model.MediaType { return model.MediaTypeMusic }
func (r *MusicResult) CoverImageURL() string      { return r.ImageURL }
