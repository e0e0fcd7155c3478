package model

import (
	"time"
)

// Checkin 记录用户的学习签到信息，StreakDays 为截至该次签到的连续天数
// swagger:model Checkin
type Checkin struct {
	BaseModel
	UserID     uint      `gorm:"index;not null" json:"userId"`
	CheckinAt  time.Time `gorm:"not null;index" json:"checkinAt"`
	StreakDays int       `gorm:"default:1" json:"streakDays"`
}

func (Checkin) TableName() string {
	return "checkins"
}
