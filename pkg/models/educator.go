package models

import "time"

// EducatorRecord represents a teacher who can view class progress
type EducatorRecord struct {
	ID           string    `json:"id" db:"id"`
	PasswordHash string    `json:"password" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
