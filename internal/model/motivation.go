package model

// Motivation 激励短句，学习计划的当日寄语在没有更具体的提示时从中选取
type Motivation struct {
	BaseModel
	Content   string `gorm:"type:text;not null" json:"content"`
	IsEnabled bool   `gorm:"default:true" json:"isEnabled"`
}

func (Motivation) TableName() string {
	return "motivations"
}
