package dto

import (
	"time"

	"github.com/noah-isme/ictak-go-api/internal/models"
)

// RegisterRequest is the registration body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Batch    string `json:"batch"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccountResponse is an account without its password hash.
type AccountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Batch     string    `json:"batch"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAccountResponse maps a stored account.
func NewAccountResponse(account models.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Phone:     account.Phone,
		Batch:     account.Batch,
		CreatedAt: account.CreatedAt,
	}
}

// RegisterResponse is returned with the session token after registration.
type RegisterResponse struct {
	Student    AccountResponse     `json:"student"`
	CourseData models.CourseRecord `json:"courseData"`
}

// UserResponse wraps the authenticated account for login and token checks.
type UserResponse struct {
	User AccountResponse `json:"user"`
}
