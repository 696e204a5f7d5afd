package configurationRepository

const (
	queryCreateConfiguration = `
		INSERT INTO configurations (
			id,
			merchant_id,
			is_active,
			version,
			settings,
			created_at,
			updated_at
		) VALUES (
			:id,
			:merchant_id,
			:is_active,
			:version,
			:settings,
			:created_at,
			:updated_at
		)
	`

	selectConfigurationColumns = `
		SELECT
			id,
			merchant_id,
			is_active,
			version,
			settings,
			created_at,
			updated_at
		FROM configurations
	`

	queryGetConfigurationByID = selectConfigurationColumns + `
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryGetActiveConfiguration = selectConfigurationColumns + `
		WHERE merchant_id = :merchant_id AND is_active = TRUE
		ORDER BY version DESC
		LIMIT 1
	`

	queryGetConfigurationHistory = selectConfigurationColumns + `
		WHERE merchant_id = :merchant_id
		ORDER BY version DESC
		LIMIT :limit
	`

	queryNextConfigurationVersion = `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM configurations
		WHERE merchant_id = :merchant_id
	`

	queryDeactivateAllConfigurations = `
		UPDATE configurations
		SET is_active = FALSE, updated_at = :updated_at
		WHERE merchant_id = :merchant_id AND is_active = TRUE
	`

	queryActivateConfiguration = `
		UPDATE configurations
		SET is_active = TRUE, updated_at = :updated_at
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryUpdateConfigurationSettings = `
		UPDATE configurations
		SET settings = :settings, updated_at = :updated_at
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryDeleteConfiguration = `
		DELETE FROM configurations
		WHERE id = :id AND merchant_id = :merchant_id
	`
)
