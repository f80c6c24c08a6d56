package recall

import (
	"context"
	"testing"
	"time"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/store"
)

func TestRankByEngagement(t *testing.T) {
	tests := []struct {
		name  string
		stats []core.EngagementStats
		topN  int
		want  []int64
	}{
		{
			// 高浏览低互动不应压过真实互动多的文章
			name: "interactions outrank raw views",
			stats: []core.EngagementStats{
				{ItemID: 2, Likes: 1, Views: 500},
				{ItemID: 1, Likes: 5, Comments: 2, Bookmarks: 1, Views: 100},
			},
			topN: 10,
			want: []int64{1, 2},
		},
		{
			name: "views break engagement ties",
			stats: []core.EngagementStats{
				{ItemID: 1, Likes: 3, Views: 10},
				{ItemID: 2, Likes: 3, Views: 90},
			},
			topN: 10,
			want: []int64{2, 1},
		},
		{
			name: "full tie breaks by id",
			stats: []core.EngagementStats{
				{ItemID: 8, Likes: 1, Views: 5},
				{ItemID: 3, Likes: 1, Views: 5},
			},
			topN: 10,
			want: []int64{3, 8},
		},
		{
			name: "truncated",
			stats: []core.EngagementStats{
				{ItemID: 1, Likes: 9},
				{ItemID: 2, Likes: 5},
				{ItemID: 3, Likes: 1},
			},
			topN: 2,
			want: []int64{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankByEngagement(tt.stats, tt.topN)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTrendingScore(t *testing.T) {
	s := core.EngagementStats{Likes: 4, Comments: 2, Views: 30}
	want := float64(4)*2 + float64(2)*3 + float64(30)*0.1
	if got := TrendingScore(s); got != want {
		t.Fatalf("TrendingScore = %v, want %v", got, want)
	}
}

type stubEngagement struct {
	stats  []core.EngagementStats
	window time.Duration
}

func (s *stubEngagement) EngagementStats(_ context.Context, _ []int64, window time.Duration) ([]core.EngagementStats, error) {
	s.window = window
	return s.stats, nil
}

func TestTrendingRecall(t *testing.T) {
	eng := &stubEngagement{stats: []core.EngagementStats{
		{ItemID: 1, Likes: 1},              // 2.0
		{ItemID: 2, Comments: 1},           // 3.0
		{ItemID: 3, Views: 10},             // 1.0
	}}
	r := &Trending{Engagement: eng, TopK: 2}

	items, err := r.Recall(context.Background(), &core.RecommendContext{})
	if err != nil {
		t.Fatal(err)
	}
	if eng.window != DefaultTrendingWindow {
		t.Fatalf("window = %v, want default", eng.window)
	}
	if len(items) != 2 || items[0].ID != 2 || items[1].ID != 1 {
		t.Fatalf("trending order wrong: %v", itemIDs(items))
	}
}

func TestHotRecallFallsBackToStore(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	kv.ZAdd(ctx, "hot:items", 10, "5")
	kv.ZAdd(ctx, "hot:items", 30, "7")
	kv.ZAdd(ctx, "hot:items", 20, "2")

	r := &Hot{Store: kv, Key: "hot:items", TopK: 3}
	items, err := r.Recall(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{7, 2, 5}
	if len(items) != len(want) {
		t.Fatalf("got %v", itemIDs(items))
	}
	for i, it := range items {
		if it.ID != want[i] {
			t.Fatalf("got %v, want %v", itemIDs(items), want)
		}
	}
}

func itemIDs(items []*core.Item) []int64 {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
