package model

import "time"

type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Username  string    `json:"username" bson:"username" validate:"required,min=3,max=30,username"`
	Name      string    `json:"name" bson:"name" validate:"required,min=3,max=100"`
	Bio       string    `json:"bio,omitempty" bson:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty" validate:"omitempty,url"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ProfileUpdate struct {
	Bio       string `json:"bio" validate:"max=500"`
	AvatarURL string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}
