package models

import "time"

type Post struct {
	ID        int64     `json:"post_id" bson:"post_id" gorm:"column:post_id;primaryKey;autoIncrement:false" validate:"required"`
	UserID    int64     `json:"user_id" bson:"user_id" gorm:"index;not null" validate:"required"`
	Content   string    `json:"content" bson:"content" gorm:"not null" validate:"required,min=1"`
	MediaURL  string    `json:"media_url,omitempty" bson:"media_url,omitempty" validate:"omitempty,url"`
	Language  string    `json:"language,omitempty" bson:"language,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" gorm:"index"`
}

func (Post) TableName() string      { return "posts" }
func (Post) CollectionName() string { return "posts" }
func (Post) EntityName() string     { return "post" }
func (Post) KeyField() string       { return "post_id" }
func (v Post) BusinessKey() int64   { return v.ID }
func (Post) UniqueFields() map[string]any {
	return nil
}

func (v *Post) SetBusinessKey(k int64) {
	v.ID = k
}

func (v *Post) ApplyDefaults(now time.Time) {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
}

func (v Post) References() []Reference {
	return []Reference{{Field: "user_id", Target: "users", Key: v.UserID}}
}
