package model

import "time"

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"unique;not null"`
	Password string `json:"-" gorm:"not null"`
	// Salt 为历史遗留字段：旧数据可能以 sha256(salt+password) 形式存储。
	// 新写入的密码一律为 bcrypt 哈希，登录成功后旧格式会被自动升级。
	Salt       *string   `json:"-"`
	CreateTime time.Time `json:"createTime" gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `json:"updateTime" gorm:"column:update_time;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
