package models

import "time"

type Message struct {
	ID          int64     `json:"message_id" bson:"message_id" gorm:"column:message_id;primaryKey;autoIncrement:false" validate:"required"`
	SenderID    int64     `json:"sender_id" bson:"sender_id" gorm:"index;not null" validate:"required"`
	RecipientID int64     `json:"recipient_id" bson:"recipient_id" gorm:"index;not null" validate:"required"`
	Content     string    `json:"content" bson:"content" gorm:"not null" validate:"required"`
	SentAt      time.Time `json:"sent_at" bson:"sent_at" gorm:"index"`
}

func (Message) TableName() string      { return "messages" }
func (Message) CollectionName() string { return "messages" }
func (Message) EntityName() string     { return "message" }
func (Message) KeyField() string       { return "message_id" }
func (v Message) BusinessKey() int64   { return v.ID }
func (Message) UniqueFields() map[string]any {
	return nil
}

func (v *Message) SetBusinessKey(k int64) {
	v.ID = k
}

func (v *Message) ApplyDefaults(now time.Time) {
	if v.SentAt.IsZero() {
		v.SentAt = now
	}
}

func (v Message) References() []Reference {
	return []Reference{
		{Field: "sender_id", Target: "users", Key: v.SenderID},
		{Field: "recipient_id", Target: "users", Key: v.RecipientID},
	}
}
