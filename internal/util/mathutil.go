package util

import "math"

// Clamp01 将 v 限制在 [0,1]，NaN 视为 0
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CosineSimilarity 两个等长向量的余弦相似度；任一向量模为 0 时返回 0
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	// 相同向量时 dot 与 normA*normB 的平方根完全相等，结果恰为 1
	sim := dot / math.Sqrt(normA*normB)
	// 浮点误差可能略微越界
	return Clamp(sim, -1, 1)
}

// Logistic 返回 1/(1+e^(k(x-x0)))，x 越大越接近 0
func Logistic(x, k, x0 float64) float64 {
	return 1 / (1 + math.Exp(k*(x-x0)))
}

// Gaussian 以 target 为峰值、sigma 为宽度的钟形匹配，峰值为 1
func Gaussian(x, target, sigma float64) float64 {
	diff := x - target
	return math.Exp(-(diff * diff) / (2 * sigma * sigma))
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
