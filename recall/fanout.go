package recall

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/pipeline"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，保留全部结果交给下游合并。
//
// 混合打分要求每个候选带着各自来源的原始分数进入 HybridNode，
// 所以这里不做去重合并；同一文章在内容/协同两侧各出现一次是预期形态。
// 单个召回源超时或失败只丢弃该源的结果，不中断其他源。
type Fanout struct {
	Sources []Source

	// Timeout 每个召回源的超时时间，<= 0 表示不限制
	Timeout time.Duration
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		grouped = make([][]*core.Item, len(n.Sources))
		eg, _   = errgroup.WithContext(ctx)
	)

	for i, src := range n.Sources {
		idx, s := i, src
		eg.Go(func() error {
			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				// 超时或错误时丢弃该源，不中断其他召回源
				return nil
			}

			mu.Lock()
			grouped[idx] = items
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// 按 Sources 声明顺序拼接，保证结果确定
	var all []*core.Item
	for _, items := range grouped {
		all = append(all, items...)
	}
	return all, nil
}
