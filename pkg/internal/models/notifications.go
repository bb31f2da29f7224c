package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is written explicitly by callers, no write fans out into notifications.
type Notification struct {
	ID        int64             `json:"notification_id" bson:"notification_id" gorm:"column:notification_id;primaryKey;autoIncrement:false" validate:"required"`
	UserID    int64             `json:"user_id" bson:"user_id" gorm:"index;not null" validate:"required"`
	Message   string            `json:"message" bson:"message" gorm:"not null" validate:"required"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at" gorm:"index"`
}

func (Notification) TableName() string      { return "notifications" }
func (Notification) CollectionName() string { return "notifications" }
func (Notification) EntityName() string     { return "notification" }
func (Notification) KeyField() string       { return "notification_id" }
func (v Notification) BusinessKey() int64   { return v.ID }
func (Notification) UniqueFields() map[string]any {
	return nil
}

func (v *Notification) SetBusinessKey(k int64) {
	v.ID = k
}

func (v *Notification) ApplyDefaults(now time.Time) {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
}

func (v Notification) References() []Reference {
	return []Reference{{Field: "user_id", Target: "users", Key: v.UserID}}
}
