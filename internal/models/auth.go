package models

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the identity echoed back on a successful login.
type LoginUser struct {
	Email string `json:"email"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
}
