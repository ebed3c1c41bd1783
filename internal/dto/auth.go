package dto

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and the actor it represents.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
