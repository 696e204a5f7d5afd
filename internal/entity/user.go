package entity

import "time"

type User struct {
	ID         string    `db:"id"`
	Email      string    `db:"email"`
	Name       string    `db:"name"`
	Password   string    `db:"password"`
	MerchantID string    `db:"merchant_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// UserLoginData is the token payload carried through middleware into
// handlers; every protected endpoint scopes its queries by MerchantID.
type UserLoginData struct {
	ID         string
	Email      string
	MerchantID string
}
