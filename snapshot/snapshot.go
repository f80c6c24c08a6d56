// Package snapshot 定义引擎的一代完整状态，以及它的持久化编解码。
//
// 一次重建产出一个 Snapshot；它构建完成后不可变，由引擎原子替换。
// 持久化是尽力而为：落盘失败不影响新快照在内存中生效。
package snapshot

import (
	"time"

	"github.com/inkstream/recokit/index"
	"github.com/inkstream/recokit/vectorize"
)

// Snapshot 是一代已构建完成的向量/索引集合。
//
// Content 为空表示语料为空（内容信号缺席）；
// Users/Items 为 nil 表示数据不足、协同索引缺席——这是小数据集的
// 正常形态，查询路径据此降级。
type Snapshot struct {
	BuiltAt time.Time

	// Model 拟合好的 TF-IDF 模型（词汇表 + idf）
	Model *vectorize.Model

	// Content 文章内容向量索引
	Content *index.VectorIndex

	// Users / Items 协同隐向量索引，成对出现或成对缺席
	Users *index.VectorIndex
	Items *index.VectorIndex
}

// HasContent 内容索引是否可用。
func (s *Snapshot) HasContent() bool {
	return s != nil && s.Content.Len() > 0
}

// HasCollab 协同索引是否可用。
func (s *Snapshot) HasCollab() bool {
	return s != nil && s.Users.Len() > 0 && s.Items.Len() > 0
}
