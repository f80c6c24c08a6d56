package mf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/inkstream/recokit/core"
)

// DefaultMaxRank 是隐向量维数上限的默认值。
const DefaultMaxRank = 50

// ErrInsufficientData 表示数据量撑不起矩阵分解。
// 这是小数据集上的正常结局：调用方跳过协同索引继续服务，不是故障。
var ErrInsufficientData = core.NewDomainError(
	core.ModuleMF, core.ErrorCodeInsufficientData, "mf: not enough users/items to factorize")

// Embeddings 是分解产物：与 ID 列表按位置对应的隐向量，全部 L2 归一化。
type Embeddings struct {
	Rank    int
	UserIDs []int64
	ItemIDs []int64
	Users   []core.Vector
	Items   []core.Vector
}

// Factorize 对偏好矩阵做 rank-k 截断 SVD：matrix ≈ U·Σ·Vᵗ。
//
//   - k = min(maxRank, min(#users, #items) - 1)；k < 1 时返回 ErrInsufficientData
//   - 用户隐向量 = normalize(U[i]·Σ)，文章隐向量 = normalize(V[j])
//   - 数值分解失败在此处兜住，同样归为数据不足：调用方只会看到
//     "协同索引缺席"，不会看到异常
func Factorize(m *PreferenceMatrix, maxRank int) (*Embeddings, error) {
	if maxRank <= 0 {
		maxRank = DefaultMaxRank
	}

	nu, ni := m.NumUsers(), m.NumItems()
	k := min(maxRank, min(nu, ni)-1)
	if k < 1 {
		return nil, ErrInsufficientData
	}

	dense := m.Dense()
	if dense == nil {
		return nil, ErrInsufficientData
	}

	var svd mat.SVD
	if ok := svd.Factorize(dense, mat.SVDThin); !ok {
		// 分解不收敛与数据不足同等对待
		return nil, ErrInsufficientData
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil) // 降序排列，直接取前 k 个

	emb := &Embeddings{
		Rank:    k,
		UserIDs: m.UserIDs,
		ItemIDs: m.ItemIDs,
		Users:   make([]core.Vector, nu),
		Items:   make([]core.Vector, ni),
	}

	for i := 0; i < nu; i++ {
		row := make([]float64, k)
		for j := 0; j < k; j++ {
			row[j] = u.At(i, j) * sigma[j]
		}
		emb.Users[i] = core.VectorFromDense(row).Normalize()
	}
	for i := 0; i < ni; i++ {
		row := make([]float64, k)
		for j := 0; j < k; j++ {
			row[j] = v.At(i, j)
		}
		emb.Items[i] = core.VectorFromDense(row).Normalize()
	}
	return emb, nil
}
