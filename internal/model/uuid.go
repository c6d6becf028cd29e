package model

import "github.com/google/uuid"

// GenerateID creates a new globally unique identifier for items and columns.
func GenerateID() string {
	return uuid.New().String()
}
