package lookup

import "mediashelf/app/model"

// Registry 按 (媒体类型, 编码类型) 查找策略，策略只在启动时注册
type Registry struct {
	strategies []Strategy
}

// NewRegistry 创建注册表
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{}
	for _, s := range strategies {
		r.Register(s)
	}
	return r
}

// Register 注册策略，先注册的优先
func (r *Registry) Register(s Strategy) {
	if s != nil {
		r.strategies = append(r.strategies, s)
	}
}

// Get 返回第一个能处理该组合的策略；ok 为 false 表示不支持该组合，与"查无数据"不同
func (r *Registry) Get(mt model.MediaType, it model.IdentifierType) (Strategy, bool) {
	for _, s := range r.strategies {
		if s.CanHandle(mt, it) {
			return s, true
		}
	}
	return nil, false
}

// Supports 是否注册了该媒体类型的策略
func (r *Registry) Supports(mt model.MediaType) bool {
	for _, s := range r.strategies {
		if s.MediaType() == mt {
			return true
		}
	}
	return false
}

// MediaTypes 按枚举顺序返回已注册策略的媒体类型
func (r *Registry) MediaTypes() []model.MediaType {
	var types []model.MediaType
	for _, mt := range model.MediaTypes() {
		if r.Supports(mt) {
			types = append(types, mt)
		}
	}
	return types
}
