package dto

import dom "todoapi/internal/domain"

// CredentialsRequest is the JSON body for POST /users and POST /users/login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the JSON body for PATCH /users/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
}

// UserResponse is the only shape a user is ever sent to clients in.
type UserResponse struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// Redact drops the password hash and token list.
func Redact(u dom.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email}
}
