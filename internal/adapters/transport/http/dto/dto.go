package dto

type RegisterDTO struct {
	FirstName string `json:"firstname" validate:"required,max=100"`
	LastName  string `json:"lastname"  validate:"required,max=100"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,max=256"`
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshDTO carries the refresh token taken from the cookie (or the body
// when the deployment allows it). An empty token is a legal input.
type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type UserResponse struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstname"`
	LastName         string `json:"lastname"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	ProfilePictureID string `json:"profile_picture_id"`
}
