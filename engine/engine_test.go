package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/inkstream/recokit/config"
	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/provider"
	"github.com/inkstream/recokit/store"
)

func fixtureDocs() []core.Document {
	return []core.Document{
		{ID: 1, Title: "golang concurrency patterns", Body: "goroutines channels select worker pools", Category: "golang", Tags: []string{"go"}},
		{ID: 2, Title: "understanding goroutines", Body: "goroutines scheduler channels runtime", Category: "golang", Tags: []string{"go"}},
		{ID: 3, Title: "matrix factorization basics", Body: "svd latent factors collaborative filtering", Category: "ml", Tags: []string{"recsys"}},
		{ID: 4, Title: "tfidf text vectorization", Body: "term frequency inverse document frequency", Category: "ml", Tags: []string{"nlp"}},
	}
}

func fixtureInteractions() []core.Interaction {
	now := time.Now()
	mk := func(uid, iid int64, kind core.InteractionKind) core.Interaction {
		return core.Interaction{UserID: uid, ItemID: iid, Kind: kind, Rating: kind.DefaultRating(), CreatedAt: now}
	}
	return []core.Interaction{
		mk(100, 1, core.KindLike),
		mk(100, 2, core.KindBookmark),
		mk(101, 2, core.KindLike),
		mk(101, 3, core.KindComment),
		mk(102, 1, core.KindView),
		mk(102, 3, core.KindLike),
		mk(103, 4, core.KindView),
	}
}

func newTestEngine(t *testing.T, snapStore core.Store) (*Engine, *provider.MemoryProvider) {
	t.Helper()
	src := provider.NewMemoryProvider(fixtureDocs(), fixtureInteractions())
	eng, err := New(config.Default(), Dependencies{
		Corpus:       src,
		Interactions: src,
		Engagement:   src,
		Store:        snapStore,
	})
	if err != nil {
		t.Fatal(err)
	}
	return eng, src
}

func TestEngineLifecycle(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	ctx := context.Background()

	if eng.State() != StateEmpty {
		t.Fatalf("initial state = %v, want empty", eng.State())
	}
	if err := eng.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}
	if eng.State() != StateReady {
		t.Fatalf("state after rebuild = %v, want ready", eng.State())
	}

	snap := eng.Snapshot()
	if !snap.HasContent() {
		t.Fatal("content index missing after rebuild")
	}
	// 4 用户 × 4 活跃文章，k = min(50, 4-1) ≥ 1，协同索引必须在场
	if !snap.HasCollab() {
		t.Fatal("collab index missing despite sufficient data")
	}
}

func TestRecommendPersonalized(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	ctx := context.Background()
	if err := eng.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	items := eng.Recommend(ctx, Request{UserID: 100, TopN: 3})
	if len(items) == 0 {
		t.Fatal("no recommendations for active user")
	}
	// 用户 100 交互过文章 1、2，协同路径必须排除
	for _, it := range items {
		if it.ID == 1 || it.ID == 2 {
			t.Fatalf("already-interacted item %d recommended", it.ID)
		}
	}
}

func TestRecommendDeterministic(t *testing.T) {
	ctx := context.Background()
	engA, _ := newTestEngine(t, nil)
	engB, _ := newTestEngine(t, nil)
	if err := engA.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}
	if err := engB.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	req := Request{UserID: 101, AnchorItemID: 2, TopN: 4}
	a, b := engA.Recommend(ctx, req), engB.Recommend(ctx, req)
	if len(a) != len(b) {
		t.Fatalf("result sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("rebuild not deterministic: %d vs %d at rank %d", a[i].ID, b[i].ID, i)
		}
	}
}

func TestRecommendColdStartFallsBackToHot(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	ctx := context.Background()
	if err := eng.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	// 匿名访客、无锚点：两路个性化召回都无信号，走热门兜底
	items := eng.Recommend(ctx, Request{TopN: 3})
	if len(items) == 0 {
		t.Fatal("cold start returned nothing")
	}
	// 文章 2（bookmark+like）与文章 3（comment+like）互动和并列为 2，
	// 浏览数也并列为 0，按 ID 升序文章 2 居首
	if items[0].ID != 2 {
		t.Fatalf("hot fallback order wrong, first = %d", items[0].ID)
	}
}

func TestRecommendBeforeRebuildUsesFallback(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	items := eng.Recommend(context.Background(), Request{UserID: 100, TopN: 3})
	// Empty 状态也要服务：热门兜底而不是报错
	if len(items) == 0 {
		t.Fatal("empty engine should still serve hot fallback")
	}
}

func TestSimilarToItem(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	ctx := context.Background()
	if err := eng.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	items := eng.SimilarToItem(ctx, 1, 2)
	if len(items) == 0 {
		t.Fatal("no similar items")
	}
	for _, it := range items {
		if it.ID == 1 {
			t.Fatal("anchor recommended as similar to itself")
		}
	}
	// 文章 1 与 2 同为 golang/goroutines/channels 主题，内容相似度应当最高
	if items[0].ID != 2 {
		t.Fatalf("most similar to 1 = %d, want 2", items[0].ID)
	}
}

func TestTrending(t *testing.T) {
	eng, _ := newTestEngine(t, nil)
	ctx := context.Background()

	items := eng.Trending(ctx, 0, 10)
	if len(items) == 0 {
		t.Fatal("no trending items")
	}
	// 趋势分：文章 3 = like×2 + comment×3 = 5，高于其他
	if items[0].ID != 3 {
		t.Fatalf("top trending = %d, want 3", items[0].ID)
	}
}

func TestTrendingCountsLifetimeViews(t *testing.T) {
	now := time.Now()
	// 文章 1：30 天前的 100 次浏览 + 刚刚 1 次点赞 → 1×2 + 100×0.1 = 12
	// 文章 2：刚刚 1 次评论 → 1×3 = 3
	interactions := []core.Interaction{
		{UserID: 200, ItemID: 1, Kind: core.KindLike, Rating: 3.0, CreatedAt: now},
		{UserID: 201, ItemID: 2, Kind: core.KindComment, Rating: 4.0, CreatedAt: now},
	}
	for i := 0; i < 100; i++ {
		interactions = append(interactions, core.Interaction{
			UserID: int64(300 + i), ItemID: 1, Kind: core.KindView, Rating: 1.0,
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		})
	}
	src := provider.NewMemoryProvider(fixtureDocs(), interactions)
	eng, err := New(config.Default(), Dependencies{Corpus: src, Interactions: src, Engagement: src})
	if err != nil {
		t.Fatal(err)
	}

	items := eng.Trending(context.Background(), 0, 10)
	if len(items) == 0 {
		t.Fatal("no trending items")
	}
	// 浏览量是终身总量：窗口外的浏览仍参与 views×0.1 项
	if items[0].ID != 1 {
		t.Fatalf("top trending = %d, want 1 (lifetime views dropped by window?)", items[0].ID)
	}
}

func TestCollabSkippedOnInsufficientData(t *testing.T) {
	src := provider.NewMemoryProvider(fixtureDocs(), []core.Interaction{
		{UserID: 100, ItemID: 1, Kind: core.KindLike, Rating: 3.0, CreatedAt: time.Now()},
		{UserID: 100, ItemID: 2, Kind: core.KindLike, Rating: 3.0, CreatedAt: time.Now()},
	})
	eng, err := New(config.Default(), Dependencies{Corpus: src, Interactions: src, Engagement: src})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// 单用户：k < 1，协同缺席但重建成功
	if err := eng.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}
	if eng.Snapshot().HasCollab() {
		t.Fatal("collab index should be absent for a single-user log")
	}
	if items := eng.SimilarToItem(ctx, 1, 2); len(items) == 0 {
		t.Fatal("content path should still serve")
	}
}

func TestSnapshotPersistAndRestore(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()

	engA, _ := newTestEngine(t, kv)
	if err := engA.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	engB, _ := newTestEngine(t, kv)
	engB.Load(ctx)
	if engB.State() != StateLoaded {
		t.Fatalf("state after load = %v, want loaded", engB.State())
	}

	a := engA.SimilarToItem(ctx, 1, 3)
	b := engB.SimilarToItem(ctx, 1, 3)
	if len(a) != len(b) {
		t.Fatalf("restored engine diverges: %d vs %d items", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("restored engine diverges at rank %d: %d vs %d", i, a[i].ID, b[i].ID)
		}
	}
}

func TestLoadWithoutPersistedSnapshotStaysEmpty(t *testing.T) {
	eng, _ := newTestEngine(t, store.NewMemoryStore())
	eng.Load(context.Background())
	if eng.State() != StateEmpty {
		t.Fatalf("state = %v, want empty", eng.State())
	}
}

func TestFilterRulesApplied(t *testing.T) {
	src := provider.NewMemoryProvider(fixtureDocs(), fixtureInteractions())
	cfg := config.Default()
	cfg.FilterRules = []string{`item.id == 2`}

	eng, err := New(cfg, Dependencies{Corpus: src, Interactions: src, Engagement: src})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := eng.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	for _, it := range eng.SimilarToItem(ctx, 1, 3) {
		if it.ID == 2 {
			t.Fatal("rule-filtered item leaked into results")
		}
	}
}

// gatedCorpus 在语料拉取处卡住重建，让测试能在重建进行中发起查询。
type gatedCorpus struct {
	*provider.MemoryProvider
	entered chan struct{}
	release chan struct{}
}

func (g *gatedCorpus) PublishedDocuments(ctx context.Context) ([]core.Document, error) {
	if g.entered != nil {
		close(g.entered)
		<-g.release
	}
	return g.MemoryProvider.PublishedDocuments(ctx)
}

func TestQueriesServeOldSnapshotDuringRebuild(t *testing.T) {
	src := provider.NewMemoryProvider(fixtureDocs(), fixtureInteractions())
	corpus := &gatedCorpus{MemoryProvider: src}
	eng, err := New(config.Default(), Dependencies{Corpus: corpus, Interactions: src, Engagement: src})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := eng.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	oldSnap := eng.Snapshot()
	req := Request{UserID: 101, AnchorItemID: 2, TopN: 4}
	baseline := eng.Recommend(ctx, req)
	if len(baseline) == 0 {
		t.Fatal("baseline query empty")
	}

	// 第二次重建卡在语料拉取上
	corpus.entered = make(chan struct{})
	corpus.release = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- eng.Rebuild(ctx) }()
	<-corpus.entered

	// 重建进行中：查询不取锁，命中的必须还是旧快照，结果与基线一致
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if snap := eng.Snapshot(); snap != oldSnap {
				t.Error("mid-rebuild query observed an unpublished snapshot")
				return
			}
			got := eng.Recommend(ctx, req)
			if len(got) != len(baseline) {
				t.Errorf("mid-rebuild query returned %d items, want %d", len(got), len(baseline))
				return
			}
			for j := range got {
				if got[j].ID != baseline[j].ID {
					t.Errorf("mid-rebuild query diverged from old snapshot at rank %d", j)
					return
				}
			}
		}()
	}
	wg.Wait()

	close(corpus.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if eng.State() != StateReady {
		t.Fatalf("state after rebuild = %v, want ready", eng.State())
	}
	// 新快照整体替换，而不是原地改写旧快照
	if eng.Snapshot() == oldSnap {
		t.Fatal("rebuild did not publish a new snapshot")
	}
}

func TestNewRejectsBadRule(t *testing.T) {
	src := provider.NewMemoryProvider(nil, nil)
	cfg := config.Default()
	cfg.FilterRules = []string{"item.score >"}
	if _, err := New(cfg, Dependencies{Corpus: src, Interactions: src}); err == nil {
		t.Fatal("invalid rule should fail at construction")
	}
}
