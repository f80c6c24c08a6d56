package core

import "time"

// InteractionKind 是用户与文章之间的交互类型。
type InteractionKind string

const (
	KindView     InteractionKind = "view"
	KindLike     InteractionKind = "like"
	KindComment  InteractionKind = "comment"
	KindBookmark InteractionKind = "bookmark"
	KindShare    InteractionKind = "share"
)

// DefaultRating 返回交互类型对应的默认隐式评分。
// 评分刻画信号强弱：浏览最弱，收藏最强。
func (k InteractionKind) DefaultRating() float64 {
	switch k {
	case KindView:
		return 1.0
	case KindLike:
		return 3.0
	case KindComment:
		return 4.0
	case KindBookmark:
		return 5.0
	case KindShare:
		return 4.5
	default:
		return 1.0
	}
}

// Document 是一篇已发布文章的内容快照。
// 在一次重建周期内视为不可变；所有权归语料存储，其他模块只引用 ID。
type Document struct {
	ID       int64
	Title    string
	Body     string
	Category string
	Tags     []string
}

// Interaction 是交互日志中的一条记录（追加写、只读消费）。
type Interaction struct {
	UserID    int64
	ItemID    int64
	Kind      InteractionKind
	Rating    float64
	CreatedAt time.Time
}

// EngagementStats 是单篇文章的互动聚合统计，供热门/趋势召回使用。
type EngagementStats struct {
	ItemID    int64
	Likes     int64
	Comments  int64
	Bookmarks int64
	Views     int64
}
