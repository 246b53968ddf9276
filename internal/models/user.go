package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered account. Name is unique and compared case-sensitively.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:64;uniqueIndex;not null"`
	Email        *string   `json:"-" gorm:"size:120;uniqueIndex"`
	PasswordHash string    `json:"-"`
	FirebaseUID  *string   `json:"-" gorm:"size:128;uniqueIndex"` // set for accounts created through Firebase login
	AboutMe      string    `json:"about_me" gorm:"size:140"`
	LastSeen     time.Time `json:"last_seen"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash. Accounts
// without a local password never match.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserSummary is the id/name projection served by GET /users.
type UserSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// UserCard is the profile snippet shown in the user popup.
type UserCard struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	AboutMe   string    `json:"about_me"`
	LastSeen  time.Time `json:"last_seen"`
	Followers int64     `json:"followers"`
	Following int64     `json:"following"`
}

// JwtCustomClaims are the session cookie claims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
