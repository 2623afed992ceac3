package model

import (
	"time"
)

// DefaultAIModel is the analysis model used when a user has not picked one.
const DefaultAIModel = "gpt-4.1-mini"

// User is a registered account. The password hash is never serialized.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	AIModel      string    `json:"aiModel" bson:"ai_model"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}
