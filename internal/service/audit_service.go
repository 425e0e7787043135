package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/optivue/scheduling/internal/domain/audit"
)

const auditBufferSize = 10_000

// AuditService persists booking mutations asynchronously so the hot path
// never waits on the audit sink.
type AuditService struct {
	repo    audit.Repository
	log     *zap.Logger
	rec     Recorder
	entries chan *audit.Entry
	done    chan struct{}
}

func NewAuditService(repo audit.Repository, log *zap.Logger, rec Recorder) *AuditService {
	if rec == nil {
		rec = NopRecorder
	}
	svc := &AuditService{
		repo:    repo,
		log:     log,
		rec:     rec,
		entries: make(chan *audit.Entry, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry. If the buffer is full, the entry is
// dropped and a warning is emitted.
func (s *AuditService) LogAsync(entry *audit.Entry) {
	select {
	case s.entries <- entry:
	default:
		s.rec.AuditDropped()
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", string(entry.Action)),
			zap.String("resource", entry.ResourceID),
		)
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit entry", zap.Error(err))
		} else {
			s.rec.AuditEntry()
		}
		cancel()
	}
}
