package models

import "time"

type Comment struct {
	ID        int64     `json:"comment_id" bson:"comment_id" gorm:"column:comment_id;primaryKey;autoIncrement:false" validate:"required"`
	UserID    int64     `json:"user_id" bson:"user_id" gorm:"index;not null" validate:"required"`
	PostID    int64     `json:"post_id" bson:"post_id" gorm:"index;not null" validate:"required"`
	Text      string    `json:"text" bson:"text" gorm:"not null" validate:"required"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (Comment) TableName() string      { return "comments" }
func (Comment) CollectionName() string { return "comments" }
func (Comment) EntityName() string     { return "comment" }
func (Comment) KeyField() string       { return "comment_id" }
func (v Comment) BusinessKey() int64   { return v.ID }
func (Comment) UniqueFields() map[string]any {
	return nil
}

func (v *Comment) SetBusinessKey(k int64) {
	v.ID = k
}

func (v *Comment) ApplyDefaults(now time.Time) {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
}

func (v Comment) References() []Reference {
	return []Reference{
		{Field: "user_id", Target: "users", Key: v.UserID},
		{Field: "post_id", Target: "posts", Key: v.PostID},
	}
}
