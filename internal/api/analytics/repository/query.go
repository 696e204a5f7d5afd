package analyticsRepository

const (
	queryDetectionOverview = `
		SELECT
			COUNT(*) AS total_detections,
			COUNT(*) FILTER (WHERE intent_type = 'high-intent') AS high_intent,
			COUNT(*) FILTER (WHERE intent_type = 'price-sensitive') AS price_sensitive,
			COUNT(*) FILTER (WHERE intent_type = 'just-browsing') AS just_browsing,
			COALESCE(AVG(intent_score), 0) AS average_score,
			COUNT(*) FILTER (WHERE widget_shown <> '') AS widget_impressions,
			COUNT(*) FILTER (WHERE converted) AS converted
		FROM detections
		WHERE merchant_id = :merchant_id AND created_at >= :since
	`

	queryConversionByIntent = `
		SELECT
			intent_type,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE converted) AS converted
		FROM detections
		WHERE merchant_id = :merchant_id AND created_at >= :since AND intent_type <> ''
		GROUP BY intent_type
	`

	queryDailyTrends = `
		SELECT
			TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS day,
			COUNT(*) FILTER (WHERE intent_type = 'high-intent') AS high_intent,
			COUNT(*) FILTER (WHERE intent_type = 'price-sensitive') AS price_sensitive,
			COUNT(*) FILTER (WHERE intent_type = 'just-browsing') AS just_browsing
		FROM detections
		WHERE merchant_id = :merchant_id AND created_at >= :since
		GROUP BY DATE_TRUNC('day', created_at)
		ORDER BY DATE_TRUNC('day', created_at) ASC
	`

	queryWidgetPerformance = `
		SELECT
			id,
			name,
			widget_type,
			impressions,
			interactions,
			conversions
		FROM widgets
		WHERE merchant_id = :merchant_id
		ORDER BY impressions DESC
	`

	queryCountActiveWidgets = `
		SELECT COUNT(*)
		FROM widgets
		WHERE merchant_id = :merchant_id AND is_active = TRUE
	`

	queryExportDetections = `
		SELECT
			session_id,
			visitor_id,
			intent_type,
			intent_score,
			widget_shown,
			converted,
			created_at
		FROM detections
		WHERE merchant_id = :merchant_id AND created_at >= :from AND created_at < :to
		ORDER BY created_at ASC
	`

	queryRecentDetections = `
		SELECT
			session_id,
			visitor_id,
			intent_type,
			intent_score,
			widget_shown,
			converted,
			created_at
		FROM detections
		WHERE merchant_id = :merchant_id
		ORDER BY created_at DESC
		LIMIT :limit
	`
)
