package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Team struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	APIToken      string    `json:"api_token"`
	AppURL        string    `json:"app_url,omitempty"`
	OptOutCapture bool      `json:"opt_out_capture"`
	CreatedAt     time.Time `json:"created_at"`
}

type User struct {
	ID             int64  `json:"id"`
	TeamID         int64  `json:"team_id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name,omitempty"`
	PasswordHash   string `json:"-"`
	TemporaryToken string `json:"-"`
	DistinctID     string `json:"distinct_id"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// GenerateToken returns a random URL-safe token of 32 random bytes.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type AccountRepository interface {
	TeamByAPIToken(ctx context.Context, token string) (*Team, error)
	Team(ctx context.Context, id int64) (*Team, error)
	UserByTemporaryToken(ctx context.Context, token string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	CountUsers(ctx context.Context) (int64, error)
	// CreateTeamWithUser inserts both rows in one transaction and sets their ids.
	CreateTeamWithUser(ctx context.Context, team *Team, user *User) error
}
