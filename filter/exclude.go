package filter

import (
	"context"

	"github.com/inkstream/recokit/core"
)

// ExcludeFilter 按固定 ID 名单剔除候选（锚点文章、运营下架等）。
type ExcludeFilter struct {
	IDs map[int64]struct{}
}

// NewExcludeFilter 创建一个排除名单过滤器。
func NewExcludeFilter(ids ...int64) *ExcludeFilter {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &ExcludeFilter{IDs: set}
}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	_, ok := f.IDs[item.ID]
	return ok, nil
}
