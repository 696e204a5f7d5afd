package pdpRepository

import (
	"ProjectKwik/internal/entity"
	contextPkg "ProjectKwik/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type DetectionEventDB struct {
	ID         sql.NullString `db:"id"`
	SessionID  sql.NullString `db:"session_id"`
	MerchantID sql.NullString `db:"merchant_id"`
	EventType  sql.NullString `db:"event_type"`
	EventData  []byte         `db:"event_data"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r *eventRepository) Insert(ctx context.Context, event entity.DetectionEvent) error {
	requestID := contextPkg.GetRequestID(ctx)

	var eventData []byte
	if event.EventData != nil {
		var err error
		eventData, err = json.Marshal(event.EventData)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Insert event data marshal err")
			return err
		}
	}

	argsKV := map[string]interface{}{
		"id":          event.ID,
		"session_id":  event.SessionID,
		"merchant_id": event.MerchantID,
		"event_type":  event.EventType,
		"event_data":  eventData,
		"created_at":  event.CreatedAt,
	}

	query, args, err := sqlx.Named(queryInsertDetectionEvent, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Insert event named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when inserting detection event")
		return err
	}

	return nil
}

func (r *eventRepository) GetBySessionID(ctx context.Context, sessionID string) ([]entity.DetectionEvent, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var eventsList []DetectionEventDB

	argsKV := map[string]interface{}{
		"session_id": sessionID,
	}

	query, args, err := sqlx.Named(queryGetDetectionEvents, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBySessionID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &eventsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBySessionID execution err")
		return nil, err
	}

	var events []entity.DetectionEvent
	for _, eventDB := range eventsList {
		event, err := r.makeDetectionEvent(eventDB)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

func (r *eventRepository) TrimToCap(ctx context.Context, sessionID string, cap int) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"session_id": sessionID,
		"cap":        cap,
	}

	query, args, err := sqlx.Named(queryTrimDetectionEvents, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("TrimToCap named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("TrimToCap execution err")
		return err
	}

	return nil
}

func (r *eventRepository) makeDetectionEvent(row DetectionEventDB) (entity.DetectionEvent, error) {
	event := entity.DetectionEvent{
		ID:         row.ID.String,
		SessionID:  row.SessionID.String,
		MerchantID: row.MerchantID.String,
		EventType:  row.EventType.String,
		CreatedAt:  row.CreatedAt,
	}

	if len(row.EventData) > 0 {
		if err := json.Unmarshal(row.EventData, &event.EventData); err != nil {
			return entity.DetectionEvent{}, err
		}
	}

	return event, nil
}
