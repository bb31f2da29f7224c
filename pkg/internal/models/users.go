package models

type User struct {
	ID           int64  `json:"user_id" bson:"user_id" gorm:"column:user_id;primaryKey;autoIncrement:false" validate:"required"`
	Username     string `json:"username" bson:"username" gorm:"uniqueIndex;not null" validate:"required,min=3,max=30"`
	Email        string `json:"email" bson:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Password     string `json:"password,omitempty" bson:"password" gorm:"not null" validate:"required,min=6"`
	ProfilePhoto string `json:"profile_photo,omitempty" bson:"profile_photo,omitempty" validate:"omitempty,url"`
	Bio          string `json:"bio,omitempty" bson:"bio,omitempty" validate:"max=500"`
}

func (User) TableName() string      { return "users" }
func (User) CollectionName() string { return "users" }
func (User) EntityName() string     { return "user" }
func (User) KeyField() string       { return "user_id" }
func (v User) BusinessKey() int64   { return v.ID }
func (v *User) SetBusinessKey(k int64) {
	v.ID = k
}

func (v User) UniqueFields() map[string]any {
	return map[string]any{
		"username": v.Username,
		"email":    v.Email,
	}
}
