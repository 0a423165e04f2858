package dto

// Data Transfer Objects for the signup / token flow

// SignupRequest: payload for requesting a confirmation code
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the accepted identity; the code travels out of band.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for a token
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
