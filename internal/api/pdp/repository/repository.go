package pdpRepository

import (
	"ProjectKwik/internal/entity"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Detections: &detectionRepository{q: sqlExecutor, log: r.log},
		Events:     &eventRepository{q: sqlExecutor, log: r.log},
		Commit:     commitFunc,
		Rollback:   rollbackFunc,
	}, nil
}

type Client struct {
	Detections interface {
		UpsertBySessionID(c context.Context, detection entity.Detection) error
		GetBySessionID(c context.Context, sessionID string, merchantID string) (entity.Detection, error)
		UpdateInteraction(c context.Context, sessionID string, merchantID string, interactionType string, at time.Time) error
		UpdateConversion(c context.Context, sessionID string, merchantID string, conversionType string, value float64, at time.Time) error
		DeleteExpired(c context.Context, before time.Time) (int64, error)
	}

	Events interface {
		Insert(c context.Context, event entity.DetectionEvent) error
		GetBySessionID(c context.Context, sessionID string) ([]entity.DetectionEvent, error)
		TrimToCap(c context.Context, sessionID string, cap int) error
	}

	Commit   func() error
	Rollback func() error
}

type detectionRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type eventRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
