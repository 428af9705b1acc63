package services

import (
	"strings"

	"github.com/google/uuid"
)

// NewShareToken returns 32 hex characters taken from a random UUID.
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
