// Package domain holds the minimal user record the engine needs: an opaque
// principal with a role, a contact email, and an API token for the bearer
// auth middleware. Full identity management lives outside this service.
package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/skyharborlabs/skyharbor/internal/principal"
)

type User struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"type:text;uniqueIndex" json:"email"`
	Name      string         `gorm:"type:text" json:"name"`
	Role      principal.Role `gorm:"type:text;not null" json:"role"`
	TokenHash string         `gorm:"type:text;uniqueIndex" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// HashToken derives the stored digest for a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

var ErrUserNotFound = errors.New("user_not_found")

type Repository interface {
	Insert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	FindByTokenHash(ctx context.Context, hash string) (*User, error)
}
