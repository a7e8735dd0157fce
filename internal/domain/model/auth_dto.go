package model

// SignupDTO is the request body for account creation
type SignupDTO struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginDTO is the request body for authentication
type LoginDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the credential-free user representation returned to clients
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginResponse wraps the authenticated user
type LoginResponse struct {
	User UserResponse `json:"user"`
}

// AuthStatusResponse reports whether the caller holds a valid session
type AuthStatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}
