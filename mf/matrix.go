// Package mf 实现交互日志到用户-文章偏好矩阵的聚合，以及截断 SVD 分解。
package mf

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/inkstream/recokit/core"
)

// PreferenceMatrix 是稀疏的用户×文章偏好矩阵。
// 行为有过合格交互的用户，列为有过合格交互的已发布文章；
// 维度严格等于活跃人群规模，不做填充。
type PreferenceMatrix struct {
	UserIDs []int64
	ItemIDs []int64

	userIdx map[int64]int
	itemIdx map[int64]int

	// cells[row] = col -> rating
	cells []map[int]float64
}

// BuildMatrix 将交互日志折叠为偏好矩阵。
//
// 规则：
//   - 引用 knownUsers/knownItems 之外的记录直接丢弃（防御过期引用）
//   - 同一 (user, item) 的重复交互取最大评分，不求和：
//     反复的弱信号不应压过一次强信号
//   - 行列按 ID 升序排布，保证构建结果确定
func BuildMatrix(records []core.Interaction, knownUsers, knownItems map[int64]struct{}) *PreferenceMatrix {
	// 先按 (user, item) 折叠
	collapsed := make(map[int64]map[int64]float64)
	for _, rec := range records {
		if _, ok := knownUsers[rec.UserID]; !ok {
			continue
		}
		if _, ok := knownItems[rec.ItemID]; !ok {
			continue
		}
		row, ok := collapsed[rec.UserID]
		if !ok {
			row = make(map[int64]float64)
			collapsed[rec.UserID] = row
		}
		if rec.Rating > row[rec.ItemID] {
			row[rec.ItemID] = rec.Rating
		}
	}

	// 活跃用户/文章按 ID 升序编号
	userIDs := make([]int64, 0, len(collapsed))
	itemSet := make(map[int64]struct{})
	for uid, row := range collapsed {
		userIDs = append(userIDs, uid)
		for iid := range row {
			itemSet[iid] = struct{}{}
		}
	}
	itemIDs := make([]int64, 0, len(itemSet))
	for iid := range itemSet {
		itemIDs = append(itemIDs, iid)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })

	m := &PreferenceMatrix{
		UserIDs: userIDs,
		ItemIDs: itemIDs,
		userIdx: make(map[int64]int, len(userIDs)),
		itemIdx: make(map[int64]int, len(itemIDs)),
		cells:   make([]map[int]float64, len(userIDs)),
	}
	for i, uid := range userIDs {
		m.userIdx[uid] = i
	}
	for j, iid := range itemIDs {
		m.itemIdx[iid] = j
	}
	for uid, row := range collapsed {
		i := m.userIdx[uid]
		cells := make(map[int]float64, len(row))
		for iid, rating := range row {
			cells[m.itemIdx[iid]] = rating
		}
		m.cells[i] = cells
	}
	return m
}

// NumUsers 返回活跃用户数。
func (m *PreferenceMatrix) NumUsers() int { return len(m.UserIDs) }

// NumItems 返回活跃文章数。
func (m *PreferenceMatrix) NumItems() int { return len(m.ItemIDs) }

// Rating 返回 (user, item) 的折叠评分，缺失为 0。
func (m *PreferenceMatrix) Rating(userID, itemID int64) float64 {
	i, ok := m.userIdx[userID]
	if !ok {
		return 0
	}
	j, ok := m.itemIdx[itemID]
	if !ok {
		return 0
	}
	return m.cells[i][j]
}

// Dense 返回稠密形式，供 SVD 分解使用。
func (m *PreferenceMatrix) Dense() *mat.Dense {
	if m.NumUsers() == 0 || m.NumItems() == 0 {
		return nil
	}
	dense := mat.NewDense(m.NumUsers(), m.NumItems(), nil)
	for i, row := range m.cells {
		for j, rating := range row {
			dense.Set(i, j, rating)
		}
	}
	return dense
}
