package util

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{3, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp01(tt.in), "Clamp01(%v)", tt.in)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{0.2, 0.4, 0.6}, []float64{0.2, 0.4, 0.6}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"zero vector", []float64{0, 0, 0}, []float64{1, 2, 3}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CosineSimilarity(tt.a, tt.b))
		})
	}
}

func TestCosineSimilarityIdenticalIsExactlyOne(t *testing.T) {
	rng := rand.New(rand.NewSource(20240601))
	for i := 0; i < 5000; i++ {
		a := make([]float64, 6)
		for j := range a {
			a[j] = rng.Float64()*2 - 1
		}
		b := append([]float64(nil), a...)
		assert.Equal(t, 1.0, CosineSimilarity(a, b), "vector %v", a)

		// 乘以 2 的幂不引入舍入误差
		scaled := make([]float64, len(a))
		for j := range a {
			scaled[j] = a[j] * 8
		}
		assert.Equal(t, 1.0, CosineSimilarity(a, scaled), "vector %v", a)

		c := make([]float64, 6)
		for j := range c {
			c[j] = rng.Float64()
		}
		assert.Equal(t, CosineSimilarity(a, c), CosineSimilarity(c, a))
		assert.LessOrEqual(t, CosineSimilarity(a, c), 1.0)
	}
}

func TestLogistic(t *testing.T) {
	assert.InDelta(t, 0.5, Logistic(1.5, 3, 1.5), 1e-9)
	assert.Greater(t, Logistic(1, 3, 1.5), Logistic(2, 3, 1.5))
	assert.Less(t, Logistic(10, 3, 1.5), 0.001)
}

func TestGaussian(t *testing.T) {
	assert.InDelta(t, 1, Gaussian(0.48, 0.48, 0.4), 1e-9)
	assert.InDelta(t, Gaussian(0.3, 0.5, 0.4), Gaussian(0.7, 0.5, 0.4), 1e-9)
	assert.Less(t, Gaussian(1, 0, 0.4), Gaussian(0.5, 0, 0.4))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.5, Mean([]float64{0.25, 0.75}), 1e-9)
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(base, base.Add(23*time.Hour)))
	assert.Equal(t, 1, DaysBetween(base, base.Add(25*time.Hour)))
	assert.Equal(t, 7, DaysBetween(base, base.AddDate(0, 0, 7)))
	assert.Equal(t, 0, DaysBetween(base, base.AddDate(0, 0, -2)))
}
