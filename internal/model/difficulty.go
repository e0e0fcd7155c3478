package model

// Difficulty 内容难度等级，同时用作用户难度档位
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Value 将难度映射到 (0,1] 区间，用于特征向量
func (d Difficulty) Value() float64 {
	switch d {
	case DifficultyEasy:
		return 1.0 / 3.0
	case DifficultyMedium:
		return 2.0 / 3.0
	case DifficultyHard:
		return 1.0
	}
	return 0
}

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}
