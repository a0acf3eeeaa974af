// Package notify fans out assignment changes to connected caregivers. Every
// listener receives every notice and filters by caregiver id client-side.
package notify

import (
	"context"

	"github.com/google/uuid"
)

// Notice is the wire form pushed to listeners.
type Notice struct {
	CaregiverID string `json:"caregiverId"`
	Message     string `json:"message"`
}

// Notifier broadcasts a caregiver-addressed message.
type Notifier interface {
	NotifyCaregiver(ctx context.Context, caregiverID uuid.UUID, message string) error
}
