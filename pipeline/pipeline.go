package pipeline

import (
	"context"

	"github.com/inkstream/recokit/core"
)

// Pipeline 把一次查询拆成可组合的 Node 链：召回 → 过滤 → 合并排序 → 截断。
// 所有 Node 只读快照数据，Pipeline 本身无状态，可按请求并发执行。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
