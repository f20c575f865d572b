package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wqs576222103/image-viewer/internal/config"
	"github.com/wqs576222103/image-viewer/internal/db"
	"github.com/wqs576222103/image-viewer/internal/model"
	"github.com/wqs576222103/image-viewer/internal/utils"
)

func tokenDuration() time.Duration {
	hours := config.Get().JWT.ExpirationHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

// LoginUser 校验用户名密码并签发登录 Token。
func LoginUser(username, password string) (string, *model.User, error) {
	var user model.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !verifyPassword(&user, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateLoginToken(user.ID, user.Username, tokenDuration())
	if err != nil {
		return "", nil, err
	}

	return token, &user, nil
}

// RefreshToken 验证仍然有效的 Token 并签发一个新的 24 小时窗口。
func RefreshToken(tokenString string) (string, error) {
	claims, err := utils.ParseLoginToken(tokenString)
	if err != nil {
		return "", err
	}
	return utils.GenerateLoginToken(claims.UserID, claims.Username, tokenDuration())
}

// verifyPassword 校验密码。
// 存储格式按优先级依次尝试：bcrypt 哈希、sha256(salt+password) 旧格式、
// 明文旧格式。旧格式验证通过后就地升级为 bcrypt。
func verifyPassword(user *model.User, password string) bool {
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
		return true
	}

	// 旧格式：带 salt 的 sha256
	if user.Salt != nil && *user.Salt != "" {
		sum := sha256.Sum256([]byte(*user.Salt + password))
		if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(user.Password)) == 1 {
			upgradePassword(user, password)
			return true
		}
		return false
	}

	// 旧格式：明文
	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) == 1 {
		upgradePassword(user, password)
		return true
	}

	return false
}

// upgradePassword 将旧格式密码升级为 bcrypt 哈希。升级失败不影响本次登录。
func upgradePassword(user *model.User, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Password upgrade hash error: %v\n", err)
		return
	}
	if err := db.DB.Model(user).Updates(map[string]interface{}{
		"password": string(hashed),
		"salt":     nil,
	}).Error; err != nil {
		log.Printf("Password upgrade save error: %v\n", err)
		return
	}
	user.Password = string(hashed)
	user.Salt = nil
}
