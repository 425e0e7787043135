package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/optivue/scheduling/internal/domain/appointment"
)

// QueryService serves the read-only views over the appointment store.
type QueryService struct {
	repo appointment.Repository
	now  func() time.Time
}

func NewQueryService(repo appointment.Repository) *QueryService {
	return &QueryService{repo: repo, now: time.Now}
}

func (s *QueryService) ListAll(ctx context.Context) ([]*appointment.Appointment, error) {
	return s.repo.ListAll(ctx)
}

func (s *QueryService) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *QueryService) ListByPatient(ctx context.Context, patientID string) ([]*appointment.Appointment, error) {
	if patientID == "" {
		return nil, &ValidationError{Fields: []string{"patientId is required"}}
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *QueryService) ListByDate(ctx context.Context, date, practitionerID string) ([]*appointment.Appointment, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.repo.ListByDate(ctx, date, practitionerID)
}

// ListUpcoming returns scheduled or confirmed appointments from today on,
// earliest first, truncated to limit when positive.
func (s *QueryService) ListUpcoming(ctx context.Context, limit int) ([]*appointment.Appointment, error) {
	today := s.now().Format(dateLayout)
	return s.repo.ListUpcoming(ctx, today, limit)
}
