package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tphakala/calendar-go/internal/datastore/repository"
	"github.com/tphakala/calendar-go/internal/errors"
	"github.com/tphakala/calendar-go/internal/logger"
	"github.com/tphakala/calendar-go/internal/observability/metrics"
)

// Store exposes the calendar persistence operations. Every call runs in its
// own transaction and reports its outcome through a Result instead of an
// error, so a store fault never escapes as a panic.
type Store struct {
	db      *gorm.DB
	log     logger.Logger
	metrics *metrics.DatastoreMetrics
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMetrics attaches datastore metrics.
func WithMetrics(m *metrics.DatastoreMetrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the clock used for updated_at and last_modified.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over db.
func NewStore(db *gorm.DB, log logger.Logger, opts ...StoreOption) *Store {
	if log == nil {
		log = logger.NewNopLogger()
	}
	s := &Store{
		db:  db,
		log: log.Module("datastore"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// execute runs fn inside a transaction and classifies the outcome.
// Repository not-found sentinels become StatusNotFound, ErrInvalidInput
// becomes StatusInvalid and anything else is a logged fault.
func execute[T any](ctx context.Context, s *Store, op, table string, fn func(tx *gorm.DB) (T, error)) Result[T] {
	start := time.Now()

	var out T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := fn(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})

	status, cause := s.classify(ctx, op, table, time.Since(start), err)
	if status != StatusOK {
		return Result[T]{Status: status, Err: cause}
	}
	return ok(out)
}

// classify maps a transaction error to a status, records metrics and logs faults.
func (s *Store) classify(ctx context.Context, op, table string, elapsed time.Duration, err error) (Status, error) {
	var (
		status Status
		cause  error
	)
	switch {
	case err == nil:
		status = StatusOK
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrNoteNotFound),
		errors.Is(err, repository.ErrSettingNotFound):
		status = StatusNotFound
	case errors.Is(err, repository.ErrInvalidInput):
		status = StatusInvalid
		cause = err
	default:
		status = StatusFault
		cause = errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", op).
			Context("table", table).
			Timing(op, elapsed).
			Build()
		s.log.WithContext(ctx).Error("store operation failed",
			logger.String("operation", op),
			logger.String("table", table),
			logger.Error(err))
	}

	if s.metrics != nil {
		txStatus := metrics.LabelCommitted
		if err != nil {
			txStatus = metrics.LabelRollback
		}
		s.metrics.RecordTransaction(txStatus)
		s.metrics.RecordDbOperation(op, table, statusLabel(status))
		s.metrics.RecordDbOperationDuration(op, table, elapsed.Seconds())
		if status == StatusFault {
			s.metrics.RecordDbOperationError(op, table, "database")
		}
	}
	return status, cause
}

func statusLabel(st Status) string {
	switch st {
	case StatusOK:
		return metrics.StatusSuccess
	case StatusNotFound:
		return metrics.StatusNotFound
	case StatusInvalid:
		return metrics.StatusInvalid
	default:
		return metrics.StatusError
	}
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return ping(ctx, s.db)
}

// Stats refreshes the row-count and pool gauges. It is a no-op without metrics.
func (s *Store) Stats(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	db := s.db.WithContext(ctx)
	if n, err := repository.NewEventRepository(db).Count(ctx); err == nil {
		s.metrics.UpdateTableRowCount(metrics.TableEvents, n)
	}
	if n, err := repository.NewNoteRepository(db).Count(ctx); err == nil {
		s.metrics.UpdateTableRowCount(metrics.TableNotes, n)
	}
	if n, err := repository.NewSettingRepository(db).Count(ctx); err == nil {
		s.metrics.UpdateTableRowCount(metrics.TableSettings, n)
	}
	if sqlDB, err := s.db.DB(); err == nil {
		st := sqlDB.Stats()
		s.metrics.UpdateConnectionMetrics(st.InUse, st.Idle, st.MaxOpenConnections)
	}
}
