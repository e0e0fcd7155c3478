package util

import "errors"

// 前置条件错误：需要用户先完成某个步骤
var (
	ErrProfileRequired = errors.New("learning profile not found, complete assessment first")
)

// 资源不存在
var (
	ErrProfileNotFound        = errors.New("learning profile not found")
	ErrCareerPathNotFound     = errors.New("career path not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrPlanNotFound           = errors.New("study plan not found")
	ErrPlanItemNotFound       = errors.New("study plan item not found")
	ErrNoActivePath           = errors.New("no active career path, accept a recommended path or generate a study plan first")
)

// 参数校验
var (
	ErrInvalidPlanStatus   = errors.New("invalid study plan status")
	ErrInvalidDailyMinutes = errors.New("daily minutes must be between 5 and 600")
	ErrPermissionDenied    = errors.New("permission denied")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrCareerPathNotFound) ||
		errors.Is(err, ErrRecommendationNotFound) ||
		errors.Is(err, ErrPlanNotFound) ||
		errors.Is(err, ErrPlanItemNotFound) ||
		errors.Is(err, ErrNoActivePath)
}

func IsPrecondition(err error) bool {
	return errors.Is(err, ErrProfileRequired)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPlanStatus) || errors.Is(err, ErrInvalidDailyMinutes)
}
