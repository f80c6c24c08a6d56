package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/filter"
	"github.com/inkstream/recokit/pipeline"
	"github.com/inkstream/recokit/rank"
	"github.com/inkstream/recokit/recall"
	"github.com/inkstream/recokit/rerank"
)

// Request 是一次推荐查询。
// UserID 为 0 表示匿名访客，AnchorItemID 为 0 表示无锚点文章；
// 两者可以同时给出（"登录用户正在读某篇文章"）。
type Request struct {
	UserID       int64
	AnchorItemID int64

	// TopN 返回条数，<= 0 取配置默认值
	TopN int

	// ContentWeight / CollabWeight 覆盖配置权重；
	// 两者都为 0 时使用配置值
	ContentWeight float64
	CollabWeight  float64
}

// Recommend 执行混合推荐查询。
//
// 降级链：个性化（内容 + 协同）→ 热门兜底 → 空列表。
// 任何内部失败都折叠进降级链，调用方永远拿到一个可用的列表。
func (e *Engine) Recommend(ctx context.Context, req Request) []*core.Item {
	topN := req.TopN
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}
	cw, colw := req.ContentWeight, req.CollabWeight
	if cw == 0 && colw == 0 {
		cw, colw = e.cfg.ContentWeight, e.cfg.CollabWeight
	}

	rctx := &core.RecommendContext{
		UserID:       req.UserID,
		AnchorItemID: req.AnchorItemID,
	}

	snap := e.snap.Load()
	if snap != nil {
		// 召回侧取 2×topN：给过滤和合并留出折损余量
		fetch := topN * 2
		fanout := &recall.Fanout{
			Sources: []recall.Source{
				&recall.ContentRecall{Index: snap.Content, TopK: fetch},
				&recall.CollabRecall{
					Users:        snap.Users,
					Items:        snap.Items,
					Interactions: e.deps.Interactions,
					TopK:         fetch,
				},
			},
		}
		p := &pipeline.Pipeline{Nodes: []pipeline.Node{
			fanout,
			filter.NewNode(e.filters...),
			&rank.HybridNode{ContentWeight: cw, CollabWeight: colw},
			&rerank.TopNNode{N: topN},
		}}

		items, err := p.Run(ctx, rctx, nil)
		if err == nil && len(items) > 0 {
			return items
		}
		if err != nil {
			e.log.Warn("personalized pipeline failed, falling back",
				zap.Int64("user_id", req.UserID), zap.Error(err))
		}
	}

	return e.fallback(ctx, rctx, topN)
}

// SimilarToItem 返回与指定文章内容最相似的文章（纯内容信号）。
// 锚点永远不出现在结果里；无内容信号时落到热门兜底。
func (e *Engine) SimilarToItem(ctx context.Context, itemID int64, topN int) []*core.Item {
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}
	rctx := &core.RecommendContext{AnchorItemID: itemID}

	if snap := e.snap.Load(); snap != nil {
		src := &recall.ContentRecall{Index: snap.Content, TopK: topN * 2}
		items, err := src.Recall(ctx, rctx)
		if err == nil && len(items) > 0 {
			items = e.applyFilters(ctx, rctx, items)
			if len(items) > topN {
				items = items[:topN]
			}
			if len(items) > 0 {
				return items
			}
		}
	}
	return e.fallback(ctx, rctx, topN)
}

// Trending 返回时间窗口内的趋势文章。
// window <= 0 取配置窗口；统计不可用时落到热门兜底。
func (e *Engine) Trending(ctx context.Context, window time.Duration, topN int) []*core.Item {
	if topN <= 0 {
		topN = e.cfg.DefaultTopN
	}
	if window <= 0 {
		window = e.cfg.TrendingWindow()
	}
	rctx := &core.RecommendContext{}

	if e.deps.Engagement != nil {
		src := &recall.Trending{
			Engagement: e.deps.Engagement,
			Window:     window,
			TopK:       topN * 2,
		}
		items, err := src.Recall(ctx, rctx)
		if err == nil && len(items) > 0 {
			items = e.applyFilters(ctx, rctx, items)
			if len(items) > topN {
				items = items[:topN]
			}
			if len(items) > 0 {
				return items
			}
		}
	}
	return e.fallback(ctx, rctx, topN)
}

// fallback 热门兜底：无个性化信号时仍然给出可用的推荐列表。
// 锚点存在时从结果中剔除。
func (e *Engine) fallback(ctx context.Context, rctx *core.RecommendContext, topN int) []*core.Item {
	src := &recall.Hot{
		Engagement: e.deps.Engagement,
		Store:      e.deps.HotStore,
		Key:        e.deps.HotKey,
		TopK:       topN * 2,
	}
	items, err := src.Recall(ctx, rctx)
	if err != nil || len(items) == 0 {
		return []*core.Item{}
	}

	filters := e.filters
	if rctx.AnchorItemID != 0 {
		filters = append(append([]filter.Filter{}, filters...),
			filter.NewExcludeFilter(rctx.AnchorItemID))
	}
	node := filter.NewNode(filters...)
	if filtered, err := node.Process(ctx, rctx, items); err == nil {
		items = filtered
	}
	if len(items) > topN {
		items = items[:topN]
	}
	return items
}

// applyFilters 对候选套用配置的过滤规则；过滤节点出错时保留原候选。
func (e *Engine) applyFilters(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) []*core.Item {
	if len(e.filters) == 0 {
		return items
	}
	node := filter.NewNode(e.filters...)
	filtered, err := node.Process(ctx, rctx, items)
	if err != nil {
		return items
	}
	return filtered
}
