package service

import (
	"crypto/rand"
	"encoding/hex"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/wqs576222103/image-viewer/internal/config"
	"github.com/wqs576222103/image-viewer/internal/db"
	"github.com/wqs576222103/image-viewer/internal/model"
)

// EnsureBootstrapUser 在用户表为空时创建初始账号。
// 系统没有注册接口，账号只能在这里或由运维直接写库创建。
func EnsureBootstrapUser() error {
	var count int64
	if err := db.DB.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cfg := config.Get()
	username := cfg.Auth.BootstrapUsername
	if username == "" {
		username = "admin"
	}

	password := cfg.Auth.BootstrapPassword
	generated := false
	if password == "" {
		// 未配置初始密码时随机生成，仅在启动日志打印一次
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		password = hex.EncodeToString(buf)
		generated = true
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := model.User{
		Username: username,
		Password: string(hashed),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return err
	}

	if generated {
		log.Printf("⚠️ 已创建初始账号 %s，随机密码: %s （请尽快修改）", username, password)
	} else {
		log.Printf("✅ 已创建初始账号 %s", username)
	}
	return nil
}
