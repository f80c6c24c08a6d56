package recall

import (
	"context"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/index"
	"github.com/inkstream/recokit/pkg/utils"
)

// ContentRecall 是基于内容的召回源：以锚点文章的 TF-IDF 向量
// 在内容索引中找最相似的其他文章。
//
// 核心思想："正在读这篇，还可能想读什么"
type ContentRecall struct {
	// Index 内容索引（文章 TF-IDF 向量）
	Index *index.VectorIndex

	// TopK 返回 TopK 个候选
	TopK int
}

func (r *ContentRecall) Name() string {
	return "recall.content"
}

func (r *ContentRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Index == nil || rctx == nil || rctx.AnchorItemID == 0 {
		return nil, nil
	}

	// 锚点未入索引：无内容信号，不是错误
	queryVec, ok := r.Index.Vector(rctx.AnchorItemID)
	if !ok {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	// 锚点自身永远不进入结果
	exclude := map[int64]struct{}{rctx.AnchorItemID: {}}
	results := r.Index.Search(queryVec, topK, exclude)

	out := make([]*core.Item, 0, len(results))
	for _, res := range results {
		it := core.NewItem(res.ID)
		it.Score = res.Score
		it.PutFeature(core.FeatureContentScore, res.Score)
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
