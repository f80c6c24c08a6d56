package recall

import (
	"context"

	"github.com/inkstream/recokit/core"
)

// Source 表示一个可复用的召回源（内容/协同/热门/趋势）。
// 可以把它理解为"可并发 fan-out 的策略单元"。
//
// 约定：信号缺失（无锚点、冷启动用户、索引缺席）返回 (nil, nil)，
// 由调用方按优先级降级，不作为错误上抛。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
