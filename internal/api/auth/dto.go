package auth

type RegisterUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name" validate:"required,max=100"`
	Password   string `json:"password" validate:"required,min=8"`
	MerchantID string `json:"merchant_id" validate:"required"`
}

type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

type LoginUserResponse struct {
	AccessToken      string  `json:"access_token"`
	ExpiresInMinutes float64 `json:"expires_in_minutes"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	MerchantID string `json:"merchant_id"`
	CreatedAt  string `json:"created_at"`
}
