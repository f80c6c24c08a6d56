package recall

import (
	"context"
	"sort"
	"strconv"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/pkg/utils"
)

// Hot 是冷启动兜底的热门召回源。
//
// 排序策略：likes + comments + bookmarks 的无权和降序，
// 相同按浏览量降序，再相同按 ID 升序。浏览量只用于破平，
// 不参与互动和：高浏览低互动的文章不应压过真实互动多的文章。
//
// 数据来源（按优先级）：
//   - Engagement 提供方的实时聚合统计
//   - Store 有序集合（离线算好的热门榜，ZRange 读取）
type Hot struct {
	Engagement core.EngagementProvider

	// Store + Key 为可选的有序集合后备，例如 key "hot:items"
	Store core.KeyValueStore
	Key   string

	// TopK 返回 TopK 个候选
	TopK int
}

func (r *Hot) Name() string { return "recall.hot" }

func (r *Hot) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	var ids []int64

	if r.Engagement != nil {
		stats, err := r.Engagement.EngagementStats(ctx, nil, 0)
		if err == nil && len(stats) > 0 {
			ids = RankByEngagement(stats, topK)
		}
	}

	// 兜底的兜底：从有序集合读离线热门榜
	if len(ids) == 0 && r.Store != nil && r.Key != "" {
		members, err := r.Store.ZRange(ctx, r.Key, 0, int64(topK)-1)
		if err == nil {
			for _, m := range members {
				if id, err := strconv.ParseInt(m, 10, 64); err == nil {
					ids = append(ids, id)
				}
			}
		}
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", utils.Label{Value: "hot", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// RankByEngagement 按冷启动热门规则对统计排序，返回前 topN 个文章 ID。
// 纯函数：只依赖传入的聚合统计，不查存储。
func RankByEngagement(stats []core.EngagementStats, topN int) []int64 {
	sorted := make([]core.EngagementStats, len(stats))
	copy(sorted, stats)

	sort.Slice(sorted, func(i, j int) bool {
		ei := sorted[i].Likes + sorted[i].Comments + sorted[i].Bookmarks
		ej := sorted[j].Likes + sorted[j].Comments + sorted[j].Bookmarks
		if ei != ej {
			return ei > ej
		}
		if sorted[i].Views != sorted[j].Views {
			return sorted[i].Views > sorted[j].Views
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})

	if topN > 0 && len(sorted) > topN {
		sorted = sorted[:topN]
	}
	ids := make([]int64, len(sorted))
	for i, s := range sorted {
		ids[i] = s.ItemID
	}
	return ids
}
