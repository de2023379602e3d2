package records

import (
	"context"
	"sync"
	"time"

	"insurance-assistant-be/internal/entity"
	"insurance-assistant-be/pkg/dialog/flow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecordRepository persists completed-flow records to Postgres. It
// implements flow.RecordStore.
type GormRecordRepository struct {
	db *gorm.DB
}

func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

func (r *GormRecordRepository) Create(ctx context.Context, kind string, fields map[string]string) (*flow.Record, error) {
	rec := entity.Record{
		Id:        uuid.New(),
		Kind:      kind,
		SessionId: fields["sessionId"],
		UserId:    fields["userId"],
		Urgency:   fields["urgency"],
		Fields:    fields,
		CreatedAt: time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}

	return &flow.Record{
		Id:        rec.Id,
		Kind:      rec.Kind,
		Fields:    rec.Fields,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// MemoryRecordRepository keeps records in process memory. Used when no
// database connection is configured and in tests.
type MemoryRecordRepository struct {
	mu      sync.Mutex
	records []*flow.Record
}

func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{}
}

func (r *MemoryRecordRepository) Create(ctx context.Context, kind string, fields map[string]string) (*flow.Record, error) {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	rec := &flow.Record{
		Id:        uuid.New(),
		Kind:      kind,
		Fields:    copied,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
	return rec, nil
}

// All returns a snapshot of every stored record.
func (r *MemoryRecordRepository) All() []*flow.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*flow.Record, len(r.records))
	copy(out, r.records)
	return out
}
