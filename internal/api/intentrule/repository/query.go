package intentRuleRepository

const (
	queryCreateRule = `
		INSERT INTO intent_rules (
			id,
			merchant_id,
			intent_type,
			threshold,
			behavioral_signals,
			historical_factors,
			device_context,
			is_active,
			created_at,
			updated_at
		) VALUES (
			:id,
			:merchant_id,
			:intent_type,
			:threshold,
			:behavioral_signals,
			:historical_factors,
			:device_context,
			:is_active,
			:created_at,
			:updated_at
		)
	`

	selectRuleColumns = `
		SELECT
			id,
			merchant_id,
			intent_type,
			threshold,
			behavioral_signals,
			historical_factors,
			device_context,
			is_active,
			total_detections,
			accurate_detections,
			false_positives,
			false_negatives,
			performance_updated_at,
			created_at,
			updated_at
		FROM intent_rules
	`

	queryGetRuleByID = selectRuleColumns + `
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryGetRulesByMerchant = selectRuleColumns + `
		WHERE merchant_id = :merchant_id
		ORDER BY created_at DESC
	`

	queryGetRuleByIntentType = selectRuleColumns + `
		WHERE merchant_id = :merchant_id AND intent_type = :intent_type
		ORDER BY created_at DESC
		LIMIT 1
	`

	// Threshold-descending keeps score ties deterministic downstream:
	// the resolver keeps the first-seen rule on equal scores.
	queryGetActiveRules = selectRuleColumns + `
		WHERE merchant_id = :merchant_id AND is_active = TRUE
		ORDER BY threshold DESC, created_at ASC
	`

	queryUpdateRule = `
		UPDATE intent_rules
		SET
			threshold = :threshold,
			behavioral_signals = :behavioral_signals,
			historical_factors = :historical_factors,
			device_context = :device_context,
			is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryDeleteRule = `
		DELETE FROM intent_rules
		WHERE id = :id AND merchant_id = :merchant_id
	`

	querySetRuleActive = `
		UPDATE intent_rules
		SET is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND merchant_id = :merchant_id
	`

	queryIncrementAccurate = `
		UPDATE intent_rules
		SET
			total_detections = total_detections + 1,
			accurate_detections = accurate_detections + 1,
			performance_updated_at = :performance_updated_at
		WHERE id = :id
	`

	queryIncrementFalsePositive = `
		UPDATE intent_rules
		SET
			total_detections = total_detections + 1,
			false_positives = false_positives + 1,
			performance_updated_at = :performance_updated_at
		WHERE id = :id
	`
)
