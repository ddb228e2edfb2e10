package types

import (
	"time"

	"github.com/freee021022/onco/internal/models"
)

// InsertUser is the registration body. ConfirmPassword is optional; when sent
// it must equal Password.
type InsertUser struct {
	Username        string  `json:"username" binding:"required,min=3,max=50"`
	Password        string  `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string  `json:"confirmPassword" binding:"omitempty,eqfield=Password"`
	Email           string  `json:"email" binding:"required,email"`
	FullName        string  `json:"fullName" binding:"required"`
	IsDoctor        bool    `json:"isDoctor"`
	Specialization  *string `json:"specialization"`
	Hospital        *string `json:"hospital"`
	City            *string `json:"city"`
	Bio             *string `json:"bio"`
	ProfileImage    *string `json:"profileImage"`
}

// Model converts the body into a row. passwordHash replaces the raw password.
func (u InsertUser) Model(passwordHash string) models.User {
	return models.User{
		Username:       u.Username,
		Password:       passwordHash,
		Email:          u.Email,
		FullName:       u.FullName,
		IsDoctor:       u.IsDoctor,
		Specialization: u.Specialization,
		Hospital:       u.Hospital,
		City:           u.City,
		Bio:            u.Bio,
		ProfileImage:   u.ProfileImage,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is the only shape in which a user leaves the API.
type UserResponse struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FullName       string    `json:"fullName"`
	IsDoctor       bool      `json:"isDoctor"`
	Specialization *string   `json:"specialization"`
	Hospital       *string   `json:"hospital"`
	City           *string   `json:"city"`
	Bio            *string   `json:"bio"`
	ProfileImage   *string   `json:"profileImage"`
	IsVerified     bool      `json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		IsDoctor:       u.IsDoctor,
		Specialization: u.Specialization,
		Hospital:       u.Hospital,
		City:           u.City,
		Bio:            u.Bio,
		ProfileImage:   u.ProfileImage,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, NewUserResponse(&users[i]))
	}
	return response
}
