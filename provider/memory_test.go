package provider

import (
	"context"
	"testing"
	"time"

	"github.com/inkstream/recokit/core"
)

func TestMemoryProviderDerivesStats(t *testing.T) {
	now := time.Now()
	p := NewMemoryProvider(nil, []core.Interaction{
		{UserID: 1, ItemID: 10, Kind: core.KindLike, CreatedAt: now},
		{UserID: 2, ItemID: 10, Kind: core.KindView, CreatedAt: now},
		{UserID: 2, ItemID: 10, Kind: core.KindComment, CreatedAt: now.Add(-48 * time.Hour)},
		{UserID: 3, ItemID: 11, Kind: core.KindBookmark, CreatedAt: now},
	})

	ctx := context.Background()

	t.Run("all items no window", func(t *testing.T) {
		stats, err := p.EngagementStats(ctx, nil, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(stats) != 2 {
			t.Fatalf("got %d stats", len(stats))
		}
		// 按 ItemID 升序
		if stats[0].ItemID != 10 || stats[1].ItemID != 11 {
			t.Fatalf("stats order: %+v", stats)
		}
		if stats[0].Likes != 1 || stats[0].Views != 1 || stats[0].Comments != 1 {
			t.Fatalf("item 10 counts wrong: %+v", stats[0])
		}
		if stats[1].Bookmarks != 1 {
			t.Fatalf("item 11 counts wrong: %+v", stats[1])
		}
	})

	t.Run("window excludes old interactions", func(t *testing.T) {
		stats, err := p.EngagementStats(ctx, nil, 24*time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range stats {
			if s.ItemID == 10 && s.Comments != 0 {
				t.Fatalf("48h-old comment counted inside 24h window: %+v", s)
			}
		}
	})

	t.Run("views count lifetime regardless of window", func(t *testing.T) {
		old := NewMemoryProvider(nil, []core.Interaction{
			{UserID: 1, ItemID: 10, Kind: core.KindView, CreatedAt: now.Add(-30 * 24 * time.Hour)},
			{UserID: 2, ItemID: 10, Kind: core.KindLike, CreatedAt: now},
		})
		stats, err := old.EngagementStats(ctx, nil, 24*time.Hour)
		if err != nil {
			t.Fatal(err)
		}
		if len(stats) != 1 {
			t.Fatalf("got %d stats", len(stats))
		}
		if stats[0].Views != 1 {
			t.Fatalf("30d-old view dropped by 24h window: %+v", stats[0])
		}
		if stats[0].Likes != 1 {
			t.Fatalf("recent like missing: %+v", stats[0])
		}
	})

	t.Run("item filter", func(t *testing.T) {
		stats, err := p.EngagementStats(ctx, []int64{11}, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(stats) != 1 || stats[0].ItemID != 11 {
			t.Fatalf("filter ignored: %+v", stats)
		}
	})
}

func TestMemoryProviderRecordInteraction(t *testing.T) {
	p := NewMemoryProvider(nil, nil)
	p.RecordInteraction(1, 10, core.KindBookmark, 0)

	records, err := p.AllInteractions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	// rating 未给时按交互类型取默认评分
	if records[0].Rating != core.KindBookmark.DefaultRating() {
		t.Fatalf("rating = %v, want default %v", records[0].Rating, core.KindBookmark.DefaultRating())
	}

	ids, err := p.UserItemIDs(context.Background(), 1)
	if err != nil || len(ids) != 1 || ids[0] != 10 {
		t.Fatalf("UserItemIDs = %v, %v", ids, err)
	}
}
