package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SpaceTypeCafeteria   = "cafeteria"
	SpaceTypeMeetingRoom = "meeting_room"
)

const (
	StatusRequiresApproval = "requires_approval"
	StatusConfirmed        = "confirmed"
	StatusCancelled        = "cancelled"
	StatusRejected         = "rejected"

	// StatusPending exists only in rows written by earlier revisions.
	// It is normalized to StatusRequiresApproval on every read.
	StatusPending = "pending"
)

// NormalizeStatus folds the legacy pending status into requires_approval.
func NormalizeStatus(status string) string {
	if status == StatusPending {
		return StatusRequiresApproval
	}
	return status
}

// IsTerminalStatus reports whether no further transition is allowed.
func IsTerminalStatus(status string) bool {
	return status == StatusCancelled || status == StatusRejected
}

// Booking is a reservation of a space for a same-day time range. Rows are
// never deleted; cancellation and rejection are status transitions and the
// row is retained as history. Status is the only field mutated after create.
type Booking struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	OrgID     uint   `json:"orgID" gorm:"index;not null"`
	UserID    uint   `json:"userID" gorm:"index;not null"`
	SpaceID   uint   `json:"spaceID" gorm:"not null;index:idx_bookings_space_date"`
	SpaceType string `json:"spaceType" gorm:"size:16;not null"` // cafeteria | meeting_room

	Date      string `json:"date" gorm:"size:10;index:idx_bookings_space_date"` // YYYY-MM-DD
	StartTime string `json:"startTime" gorm:"size:5"`                           // HH:MM
	EndTime   string `json:"endTime" gorm:"size:5"`                             // HH:MM
	Status    string `json:"status" gorm:"size:20;index"`

	// Cafeteria bookings only.
	TableID   string `json:"tableID,omitempty" gorm:"size:32"`
	SeatCount int    `json:"seatCount,omitempty"`

	// Meeting room bookings only.
	Purpose      string         `json:"purpose,omitempty"`
	Participants datatypes.JSON `json:"participants,omitempty" gorm:"type:jsonb"`
	EmployeeID   string         `json:"employeeID,omitempty" gorm:"size:32"`
	Contact      string         `json:"contact,omitempty" gorm:"size:32"`

	CreatedAt time.Time `json:"createdAt"`
}
