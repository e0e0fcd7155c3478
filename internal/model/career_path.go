package model

import (
	"gorm.io/datatypes"
)

// CareerPath 职业路径，由内容团队维护，本服务只读
// swagger:model CareerPath
type CareerPath struct {
	BaseModel
	Name                  string                      `gorm:"size:255;not null" json:"name"`
	Slug                  string                      `gorm:"size:128;uniqueIndex" json:"slug"`
	Description           string                      `gorm:"type:text" json:"description"`
	Industry              string                      `gorm:"size:64;index" json:"industry"`
	EstimatedHours        int                         `gorm:"default:0" json:"estimatedHours"`
	MarketDemand          int                         `gorm:"default:0" json:"marketDemand"`
	SalaryImpact          int                         `gorm:"default:0" json:"salaryImpact"`
	AnalyticalRequirement int                         `gorm:"default:0" json:"analyticalRequirement"`
	Outcomes              datatypes.JSONSlice[string] `json:"outcomes"`
	Tags                  datatypes.JSONSlice[string] `json:"tags"`
	IsPublished           bool                        `gorm:"default:false;index" json:"isPublished"`
	Nodes                 []SkillNode                 `gorm:"foreignKey:CareerPathID" json:"nodes,omitempty"`
}

func (CareerPath) TableName() string {
	return "career_paths"
}

// SkillNode 路径上的一个技能节点，Prerequisites 为同一路径内的节点 ID，构成 DAG
// swagger:model SkillNode
type SkillNode struct {
	BaseModel
	CareerPathID   uint                      `gorm:"index;not null" json:"careerPathId"`
	Title          string                    `gorm:"size:255;not null" json:"title"`
	CourseID       *uint                     `gorm:"index" json:"courseId,omitempty"`
	Required       bool                      `gorm:"default:true" json:"required"`
	EstimatedHours int                       `gorm:"default:0" json:"estimatedHours"`
	Order          int                       `gorm:"column:sort_order;default:0" json:"order"`
	Prerequisites  datatypes.JSONSlice[uint] `json:"prerequisites"`
}

func (SkillNode) TableName() string {
	return "skill_nodes"
}

// PathEnrollment 用户加入职业路径的记录，用于统计路径热度
type PathEnrollment struct {
	BaseModel
	UserID       uint `gorm:"index;not null" json:"userId"`
	CareerPathID uint `gorm:"index;not null" json:"careerPathId"`
	Completed    bool `gorm:"default:false" json:"completed"`
}

func (PathEnrollment) TableName() string {
	return "path_enrollments"
}

// PathStats 单条路径的报名与完成统计
type PathStats struct {
	CareerPathID uint  `json:"careerPathId"`
	Enrollments  int64 `json:"enrollments"`
	Completions  int64 `json:"completions"`
}

func (s PathStats) CompletionRate() float64 {
	if s.Enrollments <= 0 {
		return 0
	}
	return float64(s.Completions) / float64(s.Enrollments)
}
