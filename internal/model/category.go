package model

import "time"

type Category struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Name       string    `json:"name" gorm:"not null"`
	Code       string    `json:"code" gorm:"unique;not null"`
	CreateTime time.Time `json:"createTime" gorm:"column:create_time;autoCreateTime;index"`
	UpdateTime time.Time `json:"updateTime" gorm:"column:update_time;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
