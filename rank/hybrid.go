// Package rank 实现多来源候选的合并打分。
package rank

import (
	"context"
	"sort"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/pipeline"
)

// HybridNode 按加权和合并内容/协同两侧的候选。
//
// 规则：
//   - 按 ID 合并：只出现在一侧的候选，缺失一侧按 0 分参与
//   - combined = content_score×ContentWeight + collab_score×CollabWeight，
//     权重在合并时施加，不预先折进召回分数
//   - 按合并分降序排列，分数相同按 ID 升序（确定性要求）
//
// 权重取极值时退化成立：ContentWeight=1, CollabWeight=0 的排序
// 与纯内容分排序一致，反之亦然。
type HybridNode struct {
	ContentWeight float64
	CollabWeight  float64
}

func (n *HybridNode) Name() string        { return "rank.hybrid" }
func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HybridNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return Combine(items, n.ContentWeight, n.CollabWeight), nil
}

// Combine 是合并打分的纯函数形式。
// 输入可以包含同一 ID 的多个候选（各来源一条），输出每个 ID 恰好一条。
func Combine(items []*core.Item, contentWeight, collabWeight float64) []*core.Item {
	if len(items) == 0 {
		return nil
	}

	merged := make(map[int64]*core.Item, len(items))
	order := make([]int64, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		dst, ok := merged[it.ID]
		if !ok {
			dst = core.NewItem(it.ID)
			merged[it.ID] = dst
			order = append(order, it.ID)
		}
		// 同名来源分数取已有值与新值的较大者：同一来源重复召回不叠加
		for k, v := range it.Features {
			if v > dst.Feature(k) {
				dst.PutFeature(k, v)
			}
		}
		for k, lbl := range it.Labels {
			dst.PutLabel(k, lbl)
		}
	}

	out := make([]*core.Item, 0, len(merged))
	for _, id := range order {
		it := merged[id]
		it.Score = it.Feature(core.FeatureContentScore)*contentWeight +
			it.Feature(core.FeatureCollabScore)*collabWeight
		out = append(out, it)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}
