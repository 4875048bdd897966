package dto

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"jdoe"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string        `json:"accessToken"`
	TokenType   string        `json:"tokenType" example:"Bearer"`
	ExpiresIn   int           `json:"expiresIn" example:"3600"`
	User        *UserResponse `json:"user"`
}

// AvailabilityResponse reports whether a unique value is free to use
type AvailabilityResponse struct {
	Available bool `json:"available" example:"true"`
}
