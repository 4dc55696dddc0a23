package user

import "time"

// User is a customer account.
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Address  string
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
}
