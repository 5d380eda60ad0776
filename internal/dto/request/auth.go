package request

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RememberMe bool   `json:"remember_me"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,hexadecimal,len=96"`
}

// LogoutRequest revokes a single session when RefreshToken is set, every
// session of the caller otherwise.
type LogoutRequest struct {
	RefreshToken *string `json:"refresh_token,omitempty" validate:"omitempty,hexadecimal,len=96"`
}

// ClientInfo is recorded on the session created at login or refresh.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
