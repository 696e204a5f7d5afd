package analyticsRepository

import (
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
		Aggregates: &aggregateRepository{q: sqlExecutor, log: r.log},
		Commit:     commitFunc,
		Rollback:   rollbackFunc,
	}, nil
}

type Client struct {
	Aggregates interface {
		Overview(c context.Context, merchantID string, since time.Time) (OverviewRow, error)
		ConversionRows(c context.Context, merchantID string, since time.Time) ([]ConversionRow, error)
		TrendRows(c context.Context, merchantID string, since time.Time) ([]TrendRow, error)
		WidgetPerformanceRows(c context.Context, merchantID string) ([]WidgetPerfRow, error)
		CountActiveWidgets(c context.Context, merchantID string) (int64, error)
		ExportRows(c context.Context, merchantID string, from, to time.Time) ([]ExportRow, error)
		RecentRows(c context.Context, merchantID string, limit int) ([]ExportRow, error)
	}

	Commit   func() error
	Rollback func() error
}

type aggregateRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
