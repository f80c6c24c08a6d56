package filter

import (
	"context"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/pkg/dsl"
)

// RuleFilter 按 CEL 表达式剔除候选：表达式命中 (true) 的候选被剔除。
//
// 示例规则（配置文件 filter_rules）：
//   - `label.recall_source == "hot" && item.score > 0.0`
//   - `item.content_score < 0.01 && item.collab_score < 0.01`
type RuleFilter struct {
	prg *dsl.Program
}

// NewRuleFilter 编译一条剔除规则。表达式非法时在装配阶段立即报错。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{prg: prg}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.prg == nil || item == nil {
		return false, nil
	}
	return f.prg.EvalItem(ctx, rctx, item), nil
}
