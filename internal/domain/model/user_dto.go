package model

// CreateUserDTO is the admin request body for creating a user
type CreateUserDTO struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UpdateUserDTO is the admin request body for updating a user. Empty fields
// are left unchanged.
type UpdateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  *bool  `json:"isAdmin"`
}

// DashboardResponse is the admin dashboard summary
type DashboardResponse struct {
	Message     string `json:"message"`
	AdminUser   string `json:"adminUser"`
	UserCount   int64  `json:"userCount"`
	CityCount   int64  `json:"cityCount"`
	SearchTerms int64  `json:"searchTerms"`
}
