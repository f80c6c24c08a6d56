package core

import (
	"context"
	"time"
)

// 协作方接口：引擎只消费这三个只读视图，不关心博客平台的存储细节。
// HTTP 层、鉴权、CRUD 都在引擎边界之外。

// CorpusProvider 提供已发布文章语料（tags/category 已解析完成）。
type CorpusProvider interface {
	PublishedDocuments(ctx context.Context) ([]Document, error)
}

// InteractionProvider 提供交互日志的只读快照。
type InteractionProvider interface {
	// AllInteractions 返回全量交互记录（一次重建消费一个快照）
	AllInteractions(ctx context.Context) ([]Interaction, error)

	// UserItemIDs 返回某用户交互过的文章 ID，协同召回用于排除已读
	UserItemIDs(ctx context.Context, userID int64) ([]int64, error)
}

// EngagementProvider 提供按文章聚合的互动统计，供热门/趋势兜底使用。
//
// itemIDs 限定统计范围，为空表示全部已发布文章；
// window <= 0 表示不限时间窗口。窗口只作用于互动类计数
// （点赞/评论/收藏），Views 始终是终身总浏览量。
type EngagementProvider interface {
	EngagementStats(ctx context.Context, itemIDs []int64, window time.Duration) ([]EngagementStats, error)
}
