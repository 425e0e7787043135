// Package postgres backs the appointment store with Postgres through GORM for
// deployments that need durability. The booking service's own locking still
// provides the check-then-reserve guarantee; this layer only persists.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/optivue/scheduling/internal/config"
	"github.com/optivue/scheduling/internal/domain/appointment"
	"github.com/optivue/scheduling/internal/domain/audit"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// bookingCounter is the single-row source of the appointment number sequence.
type bookingCounter struct {
	ID    int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

func (bookingCounter) TableName() string {
	return "booking_counters"
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&appointment.Appointment{},
		&bookingCounter{},
		&audit.Entry{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	// Conflict lookups only ever scan occupying appointments for one
	// practitioner day.
	idx := `CREATE INDEX IF NOT EXISTS idx_appointments_practitioner_day
		ON appointments (practitioner_id, date, time)
		WHERE status NOT IN ('cancelled', 'no-show')`
	if err := db.Exec(idx).Error; err != nil {
		return fmt.Errorf("creating practitioner day index: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// Store implements appointment.Repository on Postgres.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, a *appointment.Appointment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&appointment.Appointment{}).Where("id = ?", a.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("checking id uniqueness: %w", err)
		}
		if count > 0 {
			return appointment.ErrDuplicateAppointmentID
		}

		var seq int64
		err := tx.Raw(`INSERT INTO booking_counters (id, value) VALUES (1, 1)
			ON CONFLICT (id) DO UPDATE SET value = booking_counters.value + 1
			RETURNING value`).Scan(&seq).Error
		if err != nil {
			return fmt.Errorf("advancing booking sequence: %w", err)
		}
		a.Number = fmt.Sprintf("APT-%04d", seq)

		if err := tx.Create(a).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return appointment.ErrDuplicateAppointmentID
			}
			return fmt.Errorf("inserting appointment: %w", err)
		}
		return nil
	})
}

func (s *Store) Replace(ctx context.Context, a *appointment.Appointment) error {
	res := s.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(a)
	if res.Error != nil {
		return fmt.Errorf("replacing appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&appointment.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("loading appointment: %w", err)
	}
	return &a, nil
}

func (s *Store) ListAll(ctx context.Context) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	err := s.db.WithContext(ctx).
		Order("date asc, time asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return out, nil
}

func (s *Store) ListByPatient(ctx context.Context, patientID string) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	err := s.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date desc, time desc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing patient appointments: %w", err)
	}
	return out, nil
}

func (s *Store) ListByDate(ctx context.Context, date, practitionerID string) ([]*appointment.Appointment, error) {
	q := s.db.WithContext(ctx).Where("date = ?", date)
	if practitionerID != "" {
		q = q.Where("practitioner_id = ?", practitionerID)
	}

	var out []*appointment.Appointment
	if err := q.Order("time asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing appointments by date: %w", err)
	}
	return out, nil
}

func (s *Store) ListUpcoming(ctx context.Context, fromDate string, limit int) ([]*appointment.Appointment, error) {
	q := s.db.WithContext(ctx).
		Where("date >= ?", fromDate).
		Where("status IN ?", []appointment.AppointmentStatus{
			appointment.StatusScheduled,
			appointment.StatusConfirmed,
		}).
		Order("date asc, time asc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []*appointment.Appointment
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing upcoming appointments: %w", err)
	}
	return out, nil
}

// AuditStore implements audit.Repository on the same database.
type AuditStore struct {
	db *gorm.DB
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Create(ctx context.Context, entry *audit.Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}
