package merchantRepository

const (
	queryCreateMerchant = `
		INSERT INTO merchants (
			id,
			name,
			domain,
			platform,
			api_key,
			api_secret,
			settings,
			created_at,
			updated_at
		) VALUES (
			:id,
			:name,
			:domain,
			:platform,
			:api_key,
			:api_secret,
			:settings,
			:created_at,
			:updated_at
		)
	`

	selectMerchantColumns = `
		SELECT
			id,
			name,
			domain,
			platform,
			api_key,
			api_secret,
			settings,
			created_at,
			updated_at
		FROM merchants
	`

	queryGetMerchantByID = selectMerchantColumns + `
		WHERE id = :id
	`

	queryGetMerchantByDomain = selectMerchantColumns + `
		WHERE domain = :domain
	`

	queryGetMerchantByAPIKey = selectMerchantColumns + `
		WHERE api_key = :api_key
	`

	queryUpdateMerchantSettings = `
		UPDATE merchants
		SET settings = :settings, updated_at = :updated_at
		WHERE id = :id
	`

	queryRotateMerchantCredentials = `
		UPDATE merchants
		SET api_key = :api_key, api_secret = :api_secret, updated_at = :updated_at
		WHERE id = :id
	`
)
