// Package engine 组装向量化、矩阵分解、索引与召回管线，对外提供
// 推荐引擎的完整生命周期：加载 → 重建 → 查询。
//
// 并发模型：
//   - 快照经 atomic.Pointer 原子替换，查询路径完全无锁
//   - 重建由互斥锁串行化，构建期间查询继续使用旧快照
//   - 持久化尽力而为：落盘失败只记日志，不影响内存态生效
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inkstream/recokit/config"
	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/filter"
	"github.com/inkstream/recokit/index"
	"github.com/inkstream/recokit/mf"
	"github.com/inkstream/recokit/snapshot"
	"github.com/inkstream/recokit/vectorize"
)

// State 是引擎状态机。只能单向推进：Empty → Loaded → Ready。
type State int32

const (
	// StateEmpty 无快照，所有查询走热门兜底
	StateEmpty State = iota
	// StateLoaded 从持久化恢复了上一代快照，可服务查询
	StateLoaded
	// StateReady 本进程内完成过至少一次重建
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateReady:
		return "ready"
	default:
		return "empty"
	}
}

// Dependencies 是引擎的外部协作方。
// Corpus 与 Interactions 必填；其余缺省时对应能力降级。
type Dependencies struct {
	Corpus       core.CorpusProvider
	Interactions core.InteractionProvider

	// Engagement 互动统计来源，热门/趋势召回使用；nil 时两者不可用
	Engagement core.EngagementProvider

	// Store 快照持久化存储；nil 时不持久化
	Store core.Store

	// HotStore + HotKey 可选的离线热门榜有序集合
	HotStore core.KeyValueStore
	HotKey   string

	Logger *zap.Logger
}

// Engine 是推荐引擎门面。
type Engine struct {
	deps Dependencies
	cfg  *config.EngineConfig

	// filters 由配置的 CEL 规则编译而来，应用于每次查询
	filters []filter.Filter

	log *zap.Logger

	snap  atomic.Pointer[snapshot.Snapshot]
	state atomic.Int32

	// rebuildMu 串行化重建；查询路径不取锁
	rebuildMu sync.Mutex
}

// New 创建引擎。配置里的 CEL 规则在这里编译，表达式非法立即报错。
func New(cfg *config.EngineConfig, deps Dependencies) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if deps.Corpus == nil || deps.Interactions == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			"engine: corpus and interaction providers are required")
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	filters := make([]filter.Filter, 0, len(cfg.FilterRules))
	for _, expr := range cfg.FilterRules {
		f, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("compile filter rule %q: %w", expr, err)
		}
		filters = append(filters, f)
	}

	return &Engine{
		deps:    deps,
		cfg:     cfg,
		filters: filters,
		log:     log,
	}, nil
}

// State 返回当前状态。
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Snapshot 返回当前生效的快照，可能为 nil。
func (e *Engine) Snapshot() *snapshot.Snapshot {
	return e.snap.Load()
}

// Load 尝试从持久化存储恢复上一代快照。
// 恢复失败（无历史、数据损坏）不是错误：引擎停留在 Empty，
// 查询走热门兜底，等待下一次 Rebuild。
func (e *Engine) Load(ctx context.Context) {
	if e.deps.Store == nil {
		return
	}
	snap, err := snapshot.Load(ctx, e.deps.Store, e.cfg.Snapshot.KeyPrefix)
	if err != nil {
		if core.IsStoreNotFound(err) {
			e.log.Info("no persisted snapshot, starting empty")
		} else {
			e.log.Warn("restore snapshot failed, starting empty", zap.Error(err))
		}
		return
	}

	e.snap.Store(snap)
	// Rebuild 可能已并发完成，不把 Ready 降回 Loaded
	e.state.CompareAndSwap(int32(StateEmpty), int32(StateLoaded))
	e.log.Info("snapshot restored",
		zap.Time("built_at", snap.BuiltAt),
		zap.Int("content_items", snap.Content.Len()),
		zap.Bool("collab", snap.HasCollab()))
}

// Rebuild 全量重建：拉语料与交互日志，重建内容/协同两套索引，
// 原子替换快照，再尽力持久化。重建期间查询继续命中旧快照。
func (e *Engine) Rebuild(ctx context.Context) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	start := time.Now()

	docs, err := e.deps.Corpus.PublishedDocuments(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	records, err := e.deps.Interactions.AllInteractions(ctx)
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}

	snap := &snapshot.Snapshot{BuiltAt: time.Now()}

	// 内容侧与协同侧互不依赖，并行构建
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		model, contentIdx, err := e.buildContent(docs)
		if err != nil {
			return err
		}
		snap.Model = model
		snap.Content = contentIdx
		return nil
	})

	eg.Go(func() error {
		users, items, err := e.buildCollab(egCtx, docs, records)
		if err != nil {
			return err
		}
		snap.Users = users
		snap.Items = items
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	e.snap.Store(snap)
	e.state.Store(int32(StateReady))
	e.log.Info("rebuild complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("docs", len(docs)),
		zap.Int("interactions", len(records)),
		zap.Int("content_items", snap.Content.Len()),
		zap.Bool("collab", snap.HasCollab()))

	if e.deps.Store != nil {
		if err := snapshot.Save(ctx, e.deps.Store, e.cfg.Snapshot.KeyPrefix, snap); err != nil {
			// 落盘失败不回滚内存态：下次重建会再次尝试
			e.log.Warn("persist snapshot failed", zap.Error(err))
		}
	}
	return nil
}

// buildContent 拟合 TF-IDF 模型并建立文章内容索引。
// 空语料产出空索引，属于合法状态。
func (e *Engine) buildContent(docs []core.Document) (*vectorize.Model, *index.VectorIndex, error) {
	v := &vectorize.Vectorizer{MaxFeatures: e.cfg.MaxFeatures}
	model := v.Fit(docs)

	ids := make([]int64, len(docs))
	vectors := make([]core.Vector, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
		vectors[i] = model.Transform(doc)
	}
	idx, err := index.Build(ids, vectors)
	if err != nil {
		return nil, nil, fmt.Errorf("build content index: %w", err)
	}
	return model, idx, nil
}

// buildCollab 聚合偏好矩阵并做截断 SVD。
// 数据不足时返回 (nil, nil, nil)：协同索引缺席是小数据集的正常形态。
func (e *Engine) buildCollab(_ context.Context, docs []core.Document, records []core.Interaction) (*index.VectorIndex, *index.VectorIndex, error) {
	knownItems := make(map[int64]struct{}, len(docs))
	for _, doc := range docs {
		knownItems[doc.ID] = struct{}{}
	}
	// 出现在日志里的用户即合法用户；文章必须对得上已发布语料
	knownUsers := make(map[int64]struct{}, len(records))
	for _, rec := range records {
		knownUsers[rec.UserID] = struct{}{}
	}

	matrix := mf.BuildMatrix(records, knownUsers, knownItems)
	emb, err := mf.Factorize(matrix, e.cfg.MaxRank)
	if err != nil {
		if core.IsInsufficientData(err) {
			e.log.Info("not enough data for factorization, collaborative index skipped",
				zap.Int("users", matrix.NumUsers()),
				zap.Int("items", matrix.NumItems()))
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("factorize: %w", err)
	}

	users, err := index.Build(emb.UserIDs, emb.Users)
	if err != nil {
		return nil, nil, fmt.Errorf("build user index: %w", err)
	}
	items, err := index.Build(emb.ItemIDs, emb.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("build item index: %w", err)
	}
	return users, items, nil
}
