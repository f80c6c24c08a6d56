// Package index 实现精确的暴力内积检索索引。
//
// 向量全部 L2 归一化，内积即余弦相似度。暴力扫描是正确性基线；
// 近似检索（ANN）可在同一接口后面整体替换，但不属于本核心。
package index

import (
	"sort"

	"github.com/inkstream/recokit/core"
)

// VectorIndex 持有一组 (id, 归一化向量) 对，按位置对应。
// 构建完成后视为不可变值：重建产生全新实例整体替换，读方永远
// 不会观察到半更新状态。
type VectorIndex struct {
	IDs     []int64       `json:"ids"`
	Vectors []core.Vector `json:"vectors"`

	byID map[int64]int
}

// Result 是一次检索命中。
type Result struct {
	ID    int64
	Score float64
}

// ErrLengthMismatch 表示 id 列表与向量列表长度不一致。
var ErrLengthMismatch = core.NewDomainError(
	core.ModuleIndex, core.ErrorCodeInvalidInput, "index: ids and vectors length mismatch")

// Build 以 (ids, vectors) 构建索引。两个切片按位置对应，长度必须一致。
func Build(ids []int64, vectors []core.Vector) (*VectorIndex, error) {
	if len(ids) != len(vectors) {
		return nil, ErrLengthMismatch
	}
	x := &VectorIndex{IDs: ids, Vectors: vectors}
	x.reindex()
	return x, nil
}

// reindex 重建 id -> 位置映射。反序列化后也要调用。
func (x *VectorIndex) reindex() {
	x.byID = make(map[int64]int, len(x.IDs))
	for i, id := range x.IDs {
		x.byID[id] = i
	}
}

// Len 返回索引内向量条数。
func (x *VectorIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.IDs)
}

// Vector 按 id 查询已入索引的向量。
// id 未入索引是显式的 "not found"，调用方据此判定无该锚点的信号。
func (x *VectorIndex) Vector(id int64) (core.Vector, bool) {
	if x == nil {
		return nil, false
	}
	if x.byID == nil {
		x.reindex()
	}
	i, ok := x.byID[id]
	if !ok {
		return nil, false
	}
	return x.Vectors[i], true
}

// Search 返回与 query 内积最高的前 topN 个 (id, score)。
//
//   - 暴力计算 query 对每个入索向量的内积
//   - 按分数降序排列，分数相同按 id 升序（确定性要求）
//   - exclude 中的 id 不出现在结果里
//   - 空索引返回空切片，从不报错
func (x *VectorIndex) Search(query core.Vector, topN int, exclude map[int64]struct{}) []Result {
	if x.Len() == 0 || topN <= 0 {
		return nil
	}

	results := make([]Result, 0, len(x.IDs))
	for i, id := range x.IDs {
		if _, skip := exclude[id]; skip {
			continue
		}
		results = append(results, Result{ID: id, Score: query.Dot(x.Vectors[i])})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}
