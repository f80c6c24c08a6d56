// Package provider 提供数据协作方接口的参考实现。
//
// MemoryProvider 面向测试与示例；SQLiteProvider 对接博客平台的
// 关系库，是小型部署的默认选择。
package provider

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/inkstream/recokit/core"
)

// MemoryProvider 是内存实现的语料/交互/统计数据源。
// 并发安全，适合测试与单进程原型。
type MemoryProvider struct {
	mu sync.RWMutex

	docs         []core.Document
	interactions []core.Interaction

	// stats 显式指定时直接返回，否则从交互记录推导计数
	stats []core.EngagementStats

	now func() time.Time
}

// NewMemoryProvider 创建内存数据源。
func NewMemoryProvider(docs []core.Document, interactions []core.Interaction) *MemoryProvider {
	return &MemoryProvider{
		docs:         docs,
		interactions: interactions,
		now:          time.Now,
	}
}

// SetStats 显式指定互动统计，覆盖从交互记录推导的计数。
func (p *MemoryProvider) SetStats(stats []core.EngagementStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats = stats
}

// RecordInteraction 追加一条交互。rating <= 0 时按类型取默认评分。
func (p *MemoryProvider) RecordInteraction(userID, itemID int64, kind core.InteractionKind, rating float64) {
	if rating <= 0 {
		rating = kind.DefaultRating()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interactions = append(p.interactions, core.Interaction{
		UserID:    userID,
		ItemID:    itemID,
		Kind:      kind,
		Rating:    rating,
		CreatedAt: p.now(),
	})
}

func (p *MemoryProvider) PublishedDocuments(ctx context.Context) ([]core.Document, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	docs := make([]core.Document, len(p.docs))
	copy(docs, p.docs)
	return docs, nil
}

func (p *MemoryProvider) AllInteractions(ctx context.Context) ([]core.Interaction, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	records := make([]core.Interaction, len(p.interactions))
	copy(records, p.interactions)
	return records, nil
}

func (p *MemoryProvider) UserItemIDs(ctx context.Context, userID int64) ([]int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range p.interactions {
		if r.UserID != userID {
			continue
		}
		if _, ok := seen[r.ItemID]; ok {
			continue
		}
		seen[r.ItemID] = struct{}{}
		ids = append(ids, r.ItemID)
	}
	return ids, nil
}

func (p *MemoryProvider) EngagementStats(ctx context.Context, itemIDs []int64, window time.Duration) ([]core.EngagementStats, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var want map[int64]struct{}
	if len(itemIDs) > 0 {
		want = make(map[int64]struct{}, len(itemIDs))
		for _, id := range itemIDs {
			want[id] = struct{}{}
		}
	}

	if p.stats != nil {
		var out []core.EngagementStats
		for _, s := range p.stats {
			if want != nil {
				if _, ok := want[s.ItemID]; !ok {
					continue
				}
			}
			out = append(out, s)
		}
		return out, nil
	}

	var cutoff time.Time
	if window > 0 {
		cutoff = p.now().Add(-window)
	}

	agg := make(map[int64]*core.EngagementStats)
	for _, r := range p.interactions {
		if want != nil {
			if _, ok := want[r.ItemID]; !ok {
				continue
			}
		}
		s, ok := agg[r.ItemID]
		if !ok {
			s = &core.EngagementStats{ItemID: r.ItemID}
			agg[r.ItemID] = s
		}
		// 浏览计终身总量，不受窗口截断；互动类计数按窗口过滤
		inWindow := cutoff.IsZero() || !r.CreatedAt.Before(cutoff)
		switch r.Kind {
		case core.KindLike:
			if inWindow {
				s.Likes++
			}
		case core.KindComment:
			if inWindow {
				s.Comments++
			}
		case core.KindBookmark:
			if inWindow {
				s.Bookmarks++
			}
		case core.KindView:
			s.Views++
		}
	}

	out := make([]core.EngagementStats, 0, len(agg))
	for _, s := range agg {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

var (
	_ core.CorpusProvider      = (*MemoryProvider)(nil)
	_ core.InteractionProvider = (*MemoryProvider)(nil)
	_ core.EngagementProvider  = (*MemoryProvider)(nil)
)
