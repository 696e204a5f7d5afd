package widgetRepository

const (
	queryCreateWidget = `
		INSERT INTO widgets (
			id,
			merchant_id,
			intent_type,
			widget_type,
			name,
			content,
			styling,
			settings,
			is_active,
			version,
			display_rules,
			created_at,
			updated_at
		) VALUES (
			:id,
			:merchant_id,
			:intent_type,
			:widget_type,
			:name,
			:content,
			:styling,
			:settings,
			:is_active,
			:version,
			:display_rules,
			:created_at,
			:updated_at
		)
	`

	selectWidgetColumns = `
		SELECT
			id,
			merchant_id,
			intent_type,
			widget_type,
			name,
			content,
			styling,
			settings,
			is_active,
			version,
			display_rules,
			impressions,
			interactions,
			conversions,
			performance_updated_at,
			created_at,
			updated_at
		FROM widgets
	`

	queryGetWidgetByID = selectWidgetColumns + `
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryGetWidgetsByMerchant = selectWidgetColumns + `
		WHERE merchant_id = :merchant_id
		ORDER BY intent_type ASC, version DESC
	`

	queryGetWidgetsByIntentType = selectWidgetColumns + `
		WHERE merchant_id = :merchant_id AND intent_type = :intent_type
		ORDER BY version DESC
	`

	queryGetActiveWidget = selectWidgetColumns + `
		WHERE merchant_id = :merchant_id AND intent_type = :intent_type AND is_active = TRUE
		ORDER BY version DESC
		LIMIT 1
	`

	queryNextWidgetVersion = `
		SELECT COALESCE(MAX(version), 0) + 1
		FROM widgets
		WHERE merchant_id = :merchant_id AND intent_type = :intent_type
	`

	queryUpdateWidget = `
		UPDATE widgets
		SET
			widget_type = :widget_type,
			name = :name,
			content = :content,
			styling = :styling,
			settings = :settings,
			is_active = :is_active,
			version = :version,
			display_rules = :display_rules,
			updated_at = :updated_at
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryDeleteWidget = `
		DELETE FROM widgets
		WHERE id = :id AND merchant_id = :merchant_id
	`

	querySetWidgetActive = `
		UPDATE widgets
		SET is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryIncrementImpressions = `
		UPDATE widgets
		SET impressions = impressions + 1, performance_updated_at = :performance_updated_at
		WHERE id = :id
	`

	queryIncrementInteractions = `
		UPDATE widgets
		SET interactions = interactions + 1, performance_updated_at = :performance_updated_at
		WHERE id = :id
	`

	queryIncrementConversions = `
		UPDATE widgets
		SET conversions = conversions + 1, performance_updated_at = :performance_updated_at
		WHERE id = :id
	`
)
