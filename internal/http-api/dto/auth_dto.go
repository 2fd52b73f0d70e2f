package dto

// SignupRequest for requesting a confirmation code
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the accepted identity fields
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest exchanges a confirmation code for an access token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=6"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
