package models

type ReactionKind = string

const (
	ReactionLike  = ReactionKind("like")
	ReactionLove  = ReactionKind("love")
	ReactionWow   = ReactionKind("wow")
	ReactionSad   = ReactionKind("sad")
	ReactionAngry = ReactionKind("angry")
)

// Reaction has no uniqueness on (user_id, post_id), one user may react to a post several times.
type Reaction struct {
	ID     int64        `json:"reaction_id" bson:"reaction_id" gorm:"column:reaction_id;primaryKey;autoIncrement:false" validate:"required"`
	UserID int64        `json:"user_id" bson:"user_id" gorm:"index;not null" validate:"required"`
	PostID int64        `json:"post_id" bson:"post_id" gorm:"index;not null" validate:"required"`
	Kind   ReactionKind `json:"kind" bson:"kind" gorm:"not null" validate:"required,oneof=like love wow sad angry"`
}

func (Reaction) TableName() string      { return "reactions" }
func (Reaction) CollectionName() string { return "reactions" }
func (Reaction) EntityName() string     { return "reaction" }
func (Reaction) KeyField() string       { return "reaction_id" }
func (v Reaction) BusinessKey() int64   { return v.ID }
func (Reaction) UniqueFields() map[string]any {
	return nil
}

func (v *Reaction) SetBusinessKey(k int64) {
	v.ID = k
}

func (v Reaction) References() []Reference {
	return []Reference{
		{Field: "user_id", Target: "users", Key: v.UserID},
		{Field: "post_id", Target: "posts", Key: v.PostID},
	}
}
