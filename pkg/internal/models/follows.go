package models

// Follow is a directed edge, follower -> followed.
// Self follows and duplicated edges are accepted.
type Follow struct {
	ID         int64 `json:"follow_id" bson:"follow_id" gorm:"column:follow_id;primaryKey;autoIncrement:false" validate:"required"`
	FollowerID int64 `json:"follower_id" bson:"follower_id" gorm:"index;not null" validate:"required"`
	FollowedID int64 `json:"followed_id" bson:"followed_id" gorm:"index;not null" validate:"required"`
}

func (Follow) TableName() string      { return "follows" }
func (Follow) CollectionName() string { return "follows" }
func (Follow) EntityName() string     { return "follow" }
func (Follow) KeyField() string       { return "follow_id" }
func (v Follow) BusinessKey() int64   { return v.ID }
func (Follow) UniqueFields() map[string]any {
	return nil
}

func (v *Follow) SetBusinessKey(k int64) {
	v.ID = k
}

func (v Follow) References() []Reference {
	return []Reference{
		{Field: "follower_id", Target: "users", Key: v.FollowerID},
		{Field: "followed_id", Target: "users", Key: v.FollowedID},
	}
}
