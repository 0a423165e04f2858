package dto

import "yamdb/internal/http-api/models"

// CreateUserRequest: payload for admin user creation
type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required,max=150"`
	Email     string  `json:"email" binding:"required,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Username  *string `json:"username" binding:"omitempty,max=150"`
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" binding:"omitempty,oneof=user moderator admin"`
}

type UserResponse struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      string  `json:"role"`
}

func FromModelToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      string(user.Role),
	}
}
