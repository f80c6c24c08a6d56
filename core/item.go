package core

import "github.com/inkstream/recokit/pkg/utils"

// 候选项上按来源记录的原始分数 key。
// 合并权重在 HybridNode 里统一施加，不预先折算进这两个分数。
const (
	FeatureContentScore = "content_score"
	FeatureCollabScore  = "collab_score"
)

// Item 是推荐链路中的统一承载结构：候选文章 + 各来源分数 + 标签。
// Labels 用于解释与策略驱动；Score 是合并后的最终排序依据。
type Item struct {
	ID       int64
	Score    float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:       id,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Feature 读取来源分数，缺失返回 0（缺失一侧按零分参与合并）。
func (it *Item) Feature(key string) float64 {
	if it.Features == nil {
		return 0
	}
	return it.Features[key]
}

// PutFeature 写入来源分数。
func (it *Item) PutFeature(key string, val float64) {
	if it.Features == nil {
		it.Features = make(map[string]float64)
	}
	it.Features[key] = val
}
