// Package dsl 提供基于 CEL (Common Expression Language) 的过滤表达式求值。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "hot" / label.category == "spam"
//   - 数值：item.score > 0.7 / item.content_score >= 0.5
//   - 逻辑：label.category == "ads" && item.score < 0.1
//   - 包含："hot" in label.recall_source
//
// 表达式编译一次后可并发复用（cel.Program 线程安全）。
package dsl

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/inkstream/recokit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("params", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译后的过滤表达式。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译一条 CEL 表达式。表达式非法时立即报错，避免在查询路径上才暴露。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("dsl: init cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("dsl: compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("dsl: program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式文本。
func (p *Program) Expr() string {
	return p.expr
}

// EvalItem 对单个候选项求值，返回布尔结果。
// 求值失败（如引用了不存在的字段）按 false 处理，不中断链路。
func (p *Program) EvalItem(_ context.Context, rctx *core.RecommendContext, item *core.Item) bool {
	if p == nil || p.prg == nil || item == nil {
		return false
	}

	itemMap := map[string]any{
		"id":    item.ID,
		"score": item.Score,
	}
	for k, v := range item.Features {
		itemMap[k] = v
	}

	labelMap := make(map[string]any, len(item.Labels))
	for k, lbl := range item.Labels {
		labelMap[k] = lbl.Value
	}

	var params map[string]any
	if rctx != nil {
		params = rctx.Params
	}
	if params == nil {
		params = map[string]any{}
	}

	out, _, err := p.prg.Eval(map[string]any{
		"item":   itemMap,
		"label":  labelMap,
		"params": params,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
