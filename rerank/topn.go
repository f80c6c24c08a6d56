// Package rerank 实现排序结果上的重排与截断。
package rerank

import (
	"context"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/pipeline"
)

// TopNNode 是 Top-N 截断节点，在合并排序之后截取前 N 个候选。
type TopNNode struct {
	// N 要保留的候选数量；N <= 0 表示不截断
	N int
}

func (n *TopNNode) Name() string        { return "rerank.topn" }
func (n *TopNNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
