package authRepository

const (
	queryCreateUser = `
		INSERT INTO users (
			id,
			email,
			name,
			password,
			merchant_id,
			created_at,
			updated_at
		) VALUES (
			:id,
			:email,
			:name,
			:password,
			:merchant_id,
			:created_at,
			:updated_at
		)
	`

	selectUserColumns = `
		SELECT
			id,
			email,
			name,
			password,
			merchant_id,
			created_at,
			updated_at
		FROM users
	`

	queryGetUserByEmail = selectUserColumns + `
		WHERE email = :email
	`

	queryGetUserByID = selectUserColumns + `
		WHERE id = :id
	`

	queryUpdateUser = `
		UPDATE users SET
			name = :name,
			password = :password,
			updated_at = :updated_at
		WHERE id = :id
	`
)
