// Package domain contains entity without logic, just meta-data
package domain

import (
	"time"

	"github.com/google/uuid"
)

type (
	RoomID string
	UserID string
)

// RoomStatus is monotonic within a room's life, except that
// active -> expired is detected lazily on read.
type RoomStatus string

const (
	RoomActive  RoomStatus = "active"
	RoomExpired RoomStatus = "expired"
	RoomEnded   RoomStatus = "ended"
)

// RoomTTL is fixed at creation and not renewable.
const RoomTTL = 2 * time.Hour

// Room is a bounded-lifetime call session. Owned exclusively by the
// room registry; no other component holds a private copy.
type Room struct {
	ID          RoomID     `json:"roomId"`
	UserID      UserID     `json:"userId"`
	CompanionID string     `json:"companionId,omitempty"`
	Status      RoomStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
}

// NewRoom avoids raw literals in adapters and keeps construction obvious.
func NewRoom(userID UserID, companionID string, now time.Time) *Room {
	return &Room{
		ID:          RoomID(uuid.NewString()),
		UserID:      userID,
		CompanionID: companionID,
		Status:      RoomActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(RoomTTL),
	}
}
