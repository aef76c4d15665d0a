package domain

import "time"

// User is keyed by email; UserID is the opaque identifier carried in sessions.
type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	Verified  bool      `json:"is_verified" dynamodbav:"is_verified"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CheckUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}
