package pdpRepository

const (
	// A session re-poll replaces the signal snapshot and the resolved
	// intent; interaction and conversion columns are left untouched.
	queryUpsertDetection = `
		INSERT INTO detections (
			session_id,
			merchant_id,
			visitor_id,
			product,
			signals,
			device_info,
			intent_type,
			intent_score,
			widget_shown,
			created_at,
			updated_at
		) VALUES (
			:session_id,
			:merchant_id,
			:visitor_id,
			:product,
			:signals,
			:device_info,
			:intent_type,
			:intent_score,
			:widget_shown,
			:created_at,
			:updated_at
		)
		ON CONFLICT (session_id) DO UPDATE SET
			visitor_id = EXCLUDED.visitor_id,
			product = EXCLUDED.product,
			signals = EXCLUDED.signals,
			device_info = EXCLUDED.device_info,
			intent_type = EXCLUDED.intent_type,
			intent_score = EXCLUDED.intent_score,
			widget_shown = EXCLUDED.widget_shown,
			updated_at = EXCLUDED.updated_at
	`

	selectDetectionColumns = `
		SELECT
			session_id,
			merchant_id,
			visitor_id,
			product,
			signals,
			device_info,
			intent_type,
			intent_score,
			widget_shown,
			widget_interacted,
			widget_interaction_type,
			widget_interaction_time,
			converted,
			conversion_type,
			conversion_value,
			conversion_time,
			created_at,
			updated_at
		FROM detections
	`

	queryGetDetectionBySessionID = selectDetectionColumns + `
		WHERE session_id = :session_id AND merchant_id = :merchant_id
	`

	queryUpdateDetectionInteraction = `
		UPDATE detections
		SET
			widget_interacted = TRUE,
			widget_interaction_type = :widget_interaction_type,
			widget_interaction_time = :widget_interaction_time,
			updated_at = :updated_at
		WHERE session_id = :session_id AND merchant_id = :merchant_id
	`

	queryUpdateDetectionConversion = `
		UPDATE detections
		SET
			converted = TRUE,
			conversion_type = :conversion_type,
			conversion_value = :conversion_value,
			conversion_time = :conversion_time,
			updated_at = :updated_at
		WHERE session_id = :session_id AND merchant_id = :merchant_id
	`

	queryDeleteExpiredDetections = `
		DELETE FROM detections
		WHERE created_at < :before
	`

	queryInsertDetectionEvent = `
		INSERT INTO detection_events (
			id,
			session_id,
			merchant_id,
			event_type,
			event_data,
			created_at
		) VALUES (
			:id,
			:session_id,
			:merchant_id,
			:event_type,
			:event_data,
			:created_at
		)
	`

	queryGetDetectionEvents = `
		SELECT
			id,
			session_id,
			merchant_id,
			event_type,
			event_data,
			created_at
		FROM detection_events
		WHERE session_id = :session_id
		ORDER BY created_at ASC
	`

	// Keeps the newest :cap events for a session and drops the rest.
	queryTrimDetectionEvents = `
		DELETE FROM detection_events
		WHERE session_id = :session_id
		AND id NOT IN (
			SELECT id FROM detection_events
			WHERE session_id = :session_id
			ORDER BY created_at DESC
			LIMIT :cap
		)
	`
)
