package model

import "time"

type Image struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null"`
	URL       string    `json:"url" gorm:"not null"`
	Remark    string    `json:"remark" gorm:"type:text"`
	Category  string    `json:"category" gorm:"type:text"` // 逗号连接的分类 code 列表，如 "nat,city"
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Image) TableName() string {
	return "images"
}
