package filter

import (
	"context"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/pipeline"
)

// Node 把一组 Filter 包装成 Pipeline 节点，按声明顺序逐个应用。
// 单个过滤器求值出错时保留该候选：过滤是锦上添花，不能因它丢结果。
type Node struct {
	Filters []Filter
}

func NewNode(filters ...Filter) *Node {
	return &Node{Filters: filters}
}

func (n *Node) Name() string        { return "filter" }
func (n *Node) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *Node) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(n.Filters) == 0 || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		drop := false
		for _, f := range n.Filters {
			should, err := f.ShouldFilter(ctx, rctx, it)
			if err != nil {
				continue
			}
			if should {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, it)
		}
	}
	return out, nil
}
