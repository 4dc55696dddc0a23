package admin

import "time"

// Admin is a back-office account, unrelated to customer users.
type Admin struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	InviteCode string
}
