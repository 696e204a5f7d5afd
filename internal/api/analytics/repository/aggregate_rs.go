package analyticsRepository

import (
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type OverviewRow struct {
	TotalDetections   int64   `db:"total_detections"`
	HighIntent        int64   `db:"high_intent"`
	PriceSensitive    int64   `db:"price_sensitive"`
	JustBrowsing      int64   `db:"just_browsing"`
	AverageScore      float64 `db:"average_score"`
	WidgetImpressions int64   `db:"widget_impressions"`
	Converted         int64   `db:"converted"`
}

type ConversionRow struct {
	IntentType string `db:"intent_type"`
	Total      int64  `db:"total"`
	Converted  int64  `db:"converted"`
}

type TrendRow struct {
	Day            string `db:"day"`
	HighIntent     int64  `db:"high_intent"`
	PriceSensitive int64  `db:"price_sensitive"`
	JustBrowsing   int64  `db:"just_browsing"`
}

type WidgetPerfRow struct {
	ID           sql.NullString `db:"id"`
	Name         sql.NullString `db:"name"`
	WidgetType   sql.NullString `db:"widget_type"`
	Impressions  sql.NullInt64  `db:"impressions"`
	Interactions sql.NullInt64  `db:"interactions"`
	Conversions  sql.NullInt64  `db:"conversions"`
}

type ExportRow struct {
	SessionID   sql.NullString  `db:"session_id"`
	VisitorID   sql.NullString  `db:"visitor_id"`
	IntentType  sql.NullString  `db:"intent_type"`
	IntentScore sql.NullFloat64 `db:"intent_score"`
	WidgetShown sql.NullString  `db:"widget_shown"`
	Converted   sql.NullBool    `db:"converted"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *aggregateRepository) Overview(ctx context.Context, merchantID string, since time.Time) (OverviewRow, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var row OverviewRow

	argsKV := map[string]interface{}{
		"merchant_id": merchantID,
		"since":       since,
	}

	query, args, err := sqlx.Named(queryDetectionOverview, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Overview named query preparation err")
		return OverviewRow{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Overview execution err")
		return OverviewRow{}, err
	}

	return row, nil
}

func (r *aggregateRepository) ConversionRows(ctx context.Context, merchantID string, since time.Time) ([]ConversionRow, error) {
	var rows []ConversionRow
	err := r.selectRows(ctx, &rows, queryConversionByIntent, map[string]interface{}{
		"merchant_id": merchantID,
		"since":       since,
	}, "ConversionRows")
	return rows, err
}

func (r *aggregateRepository) TrendRows(ctx context.Context, merchantID string, since time.Time) ([]TrendRow, error) {
	var rows []TrendRow
	err := r.selectRows(ctx, &rows, queryDailyTrends, map[string]interface{}{
		"merchant_id": merchantID,
		"since":       since,
	}, "TrendRows")
	return rows, err
}

func (r *aggregateRepository) WidgetPerformanceRows(ctx context.Context, merchantID string) ([]WidgetPerfRow, error) {
	var rows []WidgetPerfRow
	err := r.selectRows(ctx, &rows, queryWidgetPerformance, map[string]interface{}{
		"merchant_id": merchantID,
	}, "WidgetPerformanceRows")
	return rows, err
}

func (r *aggregateRepository) CountActiveWidgets(ctx context.Context, merchantID string) (int64, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var count int64

	argsKV := map[string]interface{}{
		"merchant_id": merchantID,
	}

	query, args, err := sqlx.Named(queryCountActiveWidgets, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountActiveWidgets named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&count); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountActiveWidgets execution err")
		return 0, err
	}

	return count, nil
}

func (r *aggregateRepository) ExportRows(ctx context.Context, merchantID string, from, to time.Time) ([]ExportRow, error) {
	var rows []ExportRow
	err := r.selectRows(ctx, &rows, queryExportDetections, map[string]interface{}{
		"merchant_id": merchantID,
		"from":        from,
		"to":          to,
	}, "ExportRows")
	return rows, err
}

func (r *aggregateRepository) RecentRows(ctx context.Context, merchantID string, limit int) ([]ExportRow, error) {
	var rows []ExportRow
	err := r.selectRows(ctx, &rows, queryRecentDetections, map[string]interface{}{
		"merchant_id": merchantID,
		"limit":       limit,
	}, "RecentRows")
	return rows, err
}

func (r *aggregateRepository) selectRows(ctx context.Context, dest interface{}, namedQuery string, argsKV map[string]interface{}, op string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, dest, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return err
	}

	return nil
}
