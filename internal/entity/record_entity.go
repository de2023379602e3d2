package entity

import (
	"time"

	"github.com/google/uuid"
)

// Record is the persisted outcome of a completed conversation flow
// (appointment, quote_request or document_submission).
type Record struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      string            `gorm:"type:varchar(64);index" json:"kind"`
	SessionId string            `gorm:"type:varchar(64);index" json:"session_id"`
	UserId    string            `gorm:"type:varchar(64)" json:"user_id"`
	Urgency   string            `gorm:"type:varchar(16)" json:"urgency"`
	Fields    map[string]string `gorm:"serializer:json" json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

func (Record) TableName() string {
	return "records"
}
