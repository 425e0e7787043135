package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one audit-trail record for a booking mutation.
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;index"`
	ActorName string    `gorm:"column:actor_name;type:varchar(100)"`

	Action       Action `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string `gorm:"column:resource_type;type:varchar(50);not null"`
	ResourceID   string `gorm:"column:resource_id;type:varchar(50);index"`

	Details string `gorm:"column:details;type:jsonb"`
}

func (Entry) TableName() string {
	return "audit_entries"
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
}
