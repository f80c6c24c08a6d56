package recall

import (
	"context"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/index"
	"github.com/inkstream/recokit/pkg/utils"
)

// CollabRecall 是基于矩阵分解的协同召回源：
// 用用户隐向量在文章隐向量索引中检索，预测分数 = 用户向量 · 文章向量。
//
// 隐向量由离线重建时的截断 SVD 产出，在线只做查表 + 内积。
type CollabRecall struct {
	// Users 用户隐向量索引（只用于按 ID 查向量）
	Users *index.VectorIndex

	// Items 文章隐向量索引
	Items *index.VectorIndex

	// Interactions 用于排除用户已交互过的文章
	Interactions core.InteractionProvider

	// TopK 返回 TopK 个候选
	TopK int
}

func (r *CollabRecall) Name() string {
	return "recall.collab"
}

func (r *CollabRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Users == nil || r.Items == nil || rctx == nil || rctx.UserID == 0 {
		return nil, nil
	}

	// 冷启动用户（无隐向量）：无协同信号，调用方落到热门兜底
	userVec, ok := r.Users.Vector(rctx.UserID)
	if !ok {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}

	// 排除已交互文章；查询失败时退化为不排除，宁可多召回也不中断
	exclude := make(map[int64]struct{})
	if r.Interactions != nil {
		if seen, err := r.Interactions.UserItemIDs(ctx, rctx.UserID); err == nil {
			for _, id := range seen {
				exclude[id] = struct{}{}
			}
		}
	}
	if rctx.AnchorItemID != 0 {
		exclude[rctx.AnchorItemID] = struct{}{}
	}

	results := r.Items.Search(userVec, topK, exclude)

	out := make([]*core.Item, 0, len(results))
	for _, res := range results {
		it := core.NewItem(res.ID)
		it.Score = res.Score
		it.PutFeature(core.FeatureCollabScore, res.Score)
		it.PutLabel("recall_source", utils.Label{Value: "collab", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
