package recall

import (
	"context"
	"sort"
	"time"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/pkg/utils"
)

// DefaultTrendingWindow 是趋势统计的默认时间窗口。
const DefaultTrendingWindow = 7 * 24 * time.Hour

// Trending 是按近期互动加权的趋势召回源。
//
// 得分 = 窗口内点赞×2 + 窗口内评论×3 + 总浏览×0.1。
// 与 Hot 的无权和是两套刻意不同的策略：Hot 服务冷启动兜底，
// Trending 服务"最近什么火"的独立入口，不做统一。
type Trending struct {
	Engagement core.EngagementProvider

	// Window 统计窗口，<= 0 时取 DefaultTrendingWindow
	Window time.Duration

	// TopK 返回 TopK 个候选
	TopK int
}

func (r *Trending) Name() string { return "recall.trending" }

func (r *Trending) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Engagement == nil {
		return nil, nil
	}

	window := r.Window
	if window <= 0 {
		window = DefaultTrendingWindow
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	stats, err := r.Engagement.EngagementStats(ctx, nil, window)
	if err != nil || len(stats) == 0 {
		return nil, nil
	}

	sorted := make([]core.EngagementStats, len(stats))
	copy(sorted, stats)
	sort.Slice(sorted, func(i, j int) bool {
		si, sj := TrendingScore(sorted[i]), TrendingScore(sorted[j])
		if si != sj {
			return si > sj
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})
	if len(sorted) > topK {
		sorted = sorted[:topK]
	}

	out := make([]*core.Item, 0, len(sorted))
	for _, s := range sorted {
		it := core.NewItem(s.ItemID)
		it.Score = TrendingScore(s)
		it.PutLabel("recall_source", utils.Label{Value: "trending", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// TrendingScore 计算趋势得分。Likes/Comments 应当已按窗口过滤，Views 为总量。
func TrendingScore(s core.EngagementStats) float64 {
	return float64(s.Likes)*2 + float64(s.Comments)*3 + float64(s.Views)*0.1
}
