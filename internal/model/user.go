package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// User 由身份服务维护，本服务只读取活跃度与 XP，并在里程碑奖励时累加 XP
// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Role      UserRole  `gorm:"type:varchar(20);default:'student'" json:"role"`
	XP        int       `gorm:"default:0" json:"xp"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	Onboarded bool      `gorm:"default:false;index" json:"onboarded"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
