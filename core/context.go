package core

import "github.com/inkstream/recokit/pkg/utils"

// RecommendContext 承载一次查询的用户/锚点/参数信息，贯穿整个 Pipeline 透传。
//
// UserID 为 0 表示匿名请求（无协同信号）；
// AnchorItemID 为 0 表示无锚点文章（无内容信号）。
// 两者都缺失时由调用方落到热门兜底。
type RecommendContext struct {
	UserID       int64
	AnchorItemID int64

	// Labels 是用户级标签，可驱动过滤规则等策略。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（如 scene、device 等），供过滤 DSL 使用。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
