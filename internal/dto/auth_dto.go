package dto

// ─── Auth ────────────────────────────────────────────────────────────────────

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	PIN      string `json:"pin"      validate:"required,min=4,max=8,numeric"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// ─── Users ───────────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Username   string `json:"username" validate:"required,min=2"`
	Name       string `json:"name"     validate:"required"`
	PIN        string `json:"pin"      validate:"required,min=4,max=8,numeric"`
	Role       string `json:"role"     validate:"required,oneof=cashier manager admin"`
	LocationID *uint  `json:"location_id"`
}

type UpdateUserRequest struct {
	Name       string `json:"name"`
	PIN        string `json:"pin"  validate:"omitempty,min=4,max=8,numeric"`
	Role       string `json:"role" validate:"omitempty,oneof=cashier manager admin"`
	LocationID *uint  `json:"location_id"`
}

type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	LocationID *uint  `json:"location_id"`
	Active     bool   `json:"active"`
}
