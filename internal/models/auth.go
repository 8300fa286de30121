package models

// Credentials is the login form
type Credentials struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// Registration is the sign-up form
type Registration struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=5,max=128"`
	Email    string `json:"email" validate:"required,email"`
}

// LoginResult is the upstream reply to a successful login
type LoginResult struct {
	AccessToken string `json:"access_token"`
	IsSuperuser bool   `json:"is_superuser"`
}

// User is the signed-in user as the dashboard knows it
type User struct {
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser"`
	SignedIn    bool   `json:"is_signedIn"`
}
