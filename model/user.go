package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Username            string     `gorm:"uniqueIndex;size:80" json:"username"`
	Email               string     `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash        string     `gorm:"size:255" json:"-"`
	FirstName           string     `gorm:"size:50" json:"first_name"`
	LastName            string     `gorm:"size:50" json:"last_name"`
	Phone               string     `gorm:"size:20" json:"phone"`
	IsAdmin             bool       `gorm:"default:false" json:"is_admin"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	SubscriptionPlan    *string    `gorm:"size:20" json:"subscription_plan"`
	SubscriptionExpires *time.Time `json:"subscription_expires"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
