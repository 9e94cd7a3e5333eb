package models

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Identity string `json:"identity" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Identity string `json:"identity" binding:"required"`
}

type ResetPasswordRequest struct {
	Identity    string `json:"identity" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type VerifyEmailRequest struct {
	Identity string `json:"identity" binding:"required"`
	OTP      string `json:"otp" binding:"required"`
}

type ResendVerifyRequest struct {
	Identity string `json:"identity" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
