// Package featurestore 对接 Feast 特征平台，把在线特征读成互动统计。
//
// 生产部署里互动计数由离线任务物化进 Feast，在线侧按实体 key 低延迟
// 读取。与直接查业务库相比，召回路径不再给主库增加聚合压力。
package featurestore

import (
	"context"
	"fmt"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/inkstream/recokit/core"
)

// 特征视图中的互动计数特征（引用格式 "view:feature"）。
const (
	FeatureLikes     = "blog_engagement:likes_count"
	FeatureComments  = "blog_engagement:comments_count"
	FeatureBookmarks = "blog_engagement:bookmarks_count"
	FeatureViews     = "blog_engagement:views_count"
)

// EntityBlogID 文章实体 join key。
const EntityBlogID = "blog_id"

// FeastEngagement 是 Feast 在线存储实现的 EngagementProvider。
//
// 在线存储按实体 key 点查，无法枚举全部文章，因此 itemIDs 为空时
// 返回空结果（召回侧转入下一个兜底来源）。时间窗口由物化任务决定，
// window 参数在这里不生效。
type FeastEngagement struct {
	client  *feastsdk.GrpcClient
	project string
}

// NewFeastEngagement 连接 Feast Feature Server。
func NewFeastEngagement(host string, port int, project string) (*FeastEngagement, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("connect feast %s:%d: %w", host, port, err)
	}
	return &FeastEngagement{client: client, project: project}, nil
}

func (f *FeastEngagement) EngagementStats(ctx context.Context, itemIDs []int64, window time.Duration) ([]core.EngagementStats, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}

	entities := make([]feastsdk.Row, len(itemIDs))
	for i, id := range itemIDs {
		entities[i] = feastsdk.Row{EntityBlogID: feastsdk.Int64Val(id)}
	}

	resp, err := f.client.GetOnlineFeatures(ctx, &feastsdk.OnlineFeaturesRequest{
		Features: []string{FeatureLikes, FeatureComments, FeatureBookmarks, FeatureViews},
		Entities: entities,
		Project:  f.project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) != len(itemIDs) {
		return nil, fmt.Errorf("feast response row count mismatch: want %d got %d", len(itemIDs), len(rows))
	}

	out := make([]core.EngagementStats, 0, len(itemIDs))
	for i, id := range itemIDs {
		row := rows[i]
		out = append(out, core.EngagementStats{
			ItemID:    id,
			Likes:     int64Feature(row, FeatureLikes),
			Comments:  int64Feature(row, FeatureComments),
			Bookmarks: int64Feature(row, FeatureBookmarks),
			Views:     int64Feature(row, FeatureViews),
		})
	}
	return out, nil
}

// int64Feature 提取整型特征值，缺失或类型不符取 0（冷文章尚无统计）。
func int64Feature(row feastsdk.Row, name string) int64 {
	val, ok := row[name]
	if !ok || val == nil {
		return 0
	}
	switch v := val.Val.(type) {
	case *feasttypes.Value_Int64Val:
		return v.Int64Val
	case *feasttypes.Value_Int32Val:
		return int64(v.Int32Val)
	case *feasttypes.Value_DoubleVal:
		return int64(v.DoubleVal)
	default:
		return 0
	}
}

var _ core.EngagementProvider = (*FeastEngagement)(nil)
