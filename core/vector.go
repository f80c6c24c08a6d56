package core

import "math"

// Vector 是稀疏向量：维度下标 -> 权重。
// TF-IDF 词向量天然稀疏；SVD 隐向量维度很小（k <= 50），用同一表示统一处理。
type Vector map[int]float64

// Dot 计算两个稀疏向量的内积。
// 遍历较小的一侧，复杂度与非零项数成正比。
func (v Vector) Dot(other Vector) float64 {
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, av := range a {
		if bv, ok := b[i]; ok {
			sum += av * bv
		}
	}
	return sum
}

// L2Norm 返回向量的 L2 范数。
func (v Vector) L2Norm() float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalize 返回 L2 归一化后的新向量。
// 零向量归一化仍为零向量（合法值，对任何查询贡献零相似度）。
func (v Vector) Normalize() Vector {
	norm := v.L2Norm()
	if norm == 0 {
		return Vector{}
	}
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// VectorFromDense 将稠密向量转为稀疏表示，丢弃零值项。
func VectorFromDense(dense []float64) Vector {
	out := make(Vector, len(dense))
	for i, x := range dense {
		if x != 0 {
			out[i] = x
		}
	}
	return out
}
