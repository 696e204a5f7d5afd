package widgetRepository

import (
	"ProjectKwik/internal/api/widget"
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type WidgetDB struct {
	ID                   sql.NullString `db:"id"`
	MerchantID           sql.NullString `db:"merchant_id"`
	IntentType           sql.NullString `db:"intent_type"`
	WidgetType           sql.NullString `db:"widget_type"`
	Name                 sql.NullString `db:"name"`
	Content              []byte         `db:"content"`
	Styling              []byte         `db:"styling"`
	Settings             []byte         `db:"settings"`
	IsActive             sql.NullBool   `db:"is_active"`
	Version              sql.NullInt64  `db:"version"`
	DisplayRules         []byte         `db:"display_rules"`
	Impressions          sql.NullInt64  `db:"impressions"`
	Interactions         sql.NullInt64  `db:"interactions"`
	Conversions          sql.NullInt64  `db:"conversions"`
	PerformanceUpdatedAt sql.NullTime   `db:"performance_updated_at"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}

func (r *widgetRepository) Create(ctx context.Context, w entity.Widget) error {
	requestID := contextPkg.GetRequestID(ctx)

	content, styling, settings, displayRules, err := marshalWidgetDocs(w)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create widget marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":            w.ID,
		"merchant_id":   w.MerchantID,
		"intent_type":   w.IntentType,
		"widget_type":   w.WidgetType,
		"name":          w.Name,
		"content":       content,
		"styling":       styling,
		"settings":      settings,
		"is_active":     w.IsActive,
		"version":       w.Version,
		"display_rules": displayRules,
		"created_at":    w.CreatedAt,
		"updated_at":    w.UpdatedAt,
	}

	query, args, err := sqlx.Named(queryCreateWidget, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Create widget named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating widget")
		return err
	}

	return nil
}

func (r *widgetRepository) GetByID(ctx context.Context, id string, merchantID string) (entity.Widget, error) {
	return r.getOne(ctx, queryGetWidgetByID, map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
	}, "GetByID", widget.ErrWidgetNotFound)
}

func (r *widgetRepository) GetByMerchant(ctx context.Context, merchantID string) ([]entity.Widget, error) {
	return r.selectWidgets(ctx, queryGetWidgetsByMerchant, map[string]interface{}{
		"merchant_id": merchantID,
	}, "GetByMerchant")
}

func (r *widgetRepository) GetByIntentType(ctx context.Context, merchantID string, intentType string) ([]entity.Widget, error) {
	return r.selectWidgets(ctx, queryGetWidgetsByIntentType, map[string]interface{}{
		"merchant_id": merchantID,
		"intent_type": intentType,
	}, "GetByIntentType")
}

// GetActiveWidget is the live selection path: newest active version for
// the resolved intent, ErrNoActiveWidget when the merchant has none.
func (r *widgetRepository) GetActiveWidget(ctx context.Context, merchantID string, intentType string) (entity.Widget, error) {
	return r.getOne(ctx, queryGetActiveWidget, map[string]interface{}{
		"merchant_id": merchantID,
		"intent_type": intentType,
	}, "GetActiveWidget", widget.ErrNoActiveWidget)
}

func (r *widgetRepository) NextVersion(ctx context.Context, merchantID string, intentType string) (int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var version int

	argsKV := map[string]interface{}{
		"merchant_id": merchantID,
		"intent_type": intentType,
	}

	query, args, err := sqlx.Named(queryNextWidgetVersion, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("NextVersion named query preparation err")
		return 0, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&version); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("NextVersion execution err")
		return 0, err
	}

	return version, nil
}

func (r *widgetRepository) Update(ctx context.Context, w entity.Widget) error {
	requestID := contextPkg.GetRequestID(ctx)

	content, styling, settings, displayRules, err := marshalWidgetDocs(w)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Update widget marshal err")
		return err
	}

	argsKV := map[string]interface{}{
		"id":            w.ID,
		"merchant_id":   w.MerchantID,
		"widget_type":   w.WidgetType,
		"name":          w.Name,
		"content":       content,
		"styling":       styling,
		"settings":      settings,
		"is_active":     w.IsActive,
		"version":       w.Version,
		"display_rules": displayRules,
		"updated_at":    time.Now(),
	}

	return r.execAffectingOne(ctx, queryUpdateWidget, argsKV, "Update")
}

func (r *widgetRepository) Delete(ctx context.Context, id string, merchantID string) error {
	argsKV := map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
	}

	return r.execAffectingOne(ctx, queryDeleteWidget, argsKV, "Delete")
}

func (r *widgetRepository) SetActive(ctx context.Context, id string, merchantID string, active bool) error {
	argsKV := map[string]interface{}{
		"id":          id,
		"merchant_id": merchantID,
		"is_active":   active,
		"updated_at":  time.Now(),
	}

	return r.execAffectingOne(ctx, querySetWidgetActive, argsKV, "SetActive")
}

func (r *widgetRepository) IncrementImpressions(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, queryIncrementImpressions, id, "IncrementImpressions")
}

func (r *widgetRepository) IncrementInteractions(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, queryIncrementInteractions, id, "IncrementInteractions")
}

func (r *widgetRepository) IncrementConversions(ctx context.Context, id string) error {
	return r.incrementCounter(ctx, queryIncrementConversions, id, "IncrementConversions")
}

func (r *widgetRepository) incrementCounter(ctx context.Context, namedQuery string, id string, op string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":                     id,
		"performance_updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return err
	}

	return nil
}

func (r *widgetRepository) getOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string, notFound error) (entity.Widget, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var w WidgetDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return entity.Widget{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&w); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn(op + " no widget found")
			return entity.Widget{}, notFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return entity.Widget{}, err
	}

	return r.makeWidget(w)
}

func (r *widgetRepository) selectWidgets(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) ([]entity.Widget, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var widgetsList []WidgetDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &widgetsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return nil, err
	}

	var widgets []entity.Widget
	for _, widgetDB := range widgetsList {
		w, err := r.makeWidget(widgetDB)
		if err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}

	return widgets, nil
}

func (r *widgetRepository) execAffectingOne(ctx context.Context, namedQuery string, argsKV map[string]interface{}, op string) error {
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

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         argsKV["id"],
		}).Warn(op + " no rows affected")
		return widget.ErrWidgetNotFound
	}

	return nil
}

func marshalWidgetDocs(w entity.Widget) (content, styling, settings, displayRules []byte, err error) {
	if content, err = json.Marshal(w.Content); err != nil {
		return nil, nil, nil, nil, err
	}
	if styling, err = json.Marshal(w.Styling); err != nil {
		return nil, nil, nil, nil, err
	}
	if settings, err = json.Marshal(w.Settings); err != nil {
		return nil, nil, nil, nil, err
	}
	if w.DisplayRules != nil {
		if displayRules, err = json.Marshal(w.DisplayRules); err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return content, styling, settings, displayRules, nil
}

func (r *widgetRepository) makeWidget(row WidgetDB) (entity.Widget, error) {
	w := entity.Widget{
		ID:         row.ID.String,
		MerchantID: row.MerchantID.String,
		IntentType: row.IntentType.String,
		WidgetType: row.WidgetType.String,
		Name:       row.Name.String,
		IsActive:   row.IsActive.Bool,
		Version:    int(row.Version.Int64),
		Performance: entity.WidgetPerformance{
			Impressions:  row.Impressions.Int64,
			Interactions: row.Interactions.Int64,
			Conversions:  row.Conversions.Int64,
			LastUpdated:  row.PerformanceUpdatedAt.Time,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if len(row.Content) > 0 {
		if err := json.Unmarshal(row.Content, &w.Content); err != nil {
			return entity.Widget{}, err
		}
	}
	if len(row.Styling) > 0 {
		if err := json.Unmarshal(row.Styling, &w.Styling); err != nil {
			return entity.Widget{}, err
		}
	}
	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &w.Settings); err != nil {
			return entity.Widget{}, err
		}
	}
	if len(row.DisplayRules) > 0 {
		if err := json.Unmarshal(row.DisplayRules, &w.DisplayRules); err != nil {
			return entity.Widget{}, err
		}
	}

	return w, nil
}
