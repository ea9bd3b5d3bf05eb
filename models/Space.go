package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeatsPerTable is the fixed size of every cafeteria table. A table is full
// once four seats are committed for a slot, regardless of how many bookings
// they are spread over.
const SeatsPerTable = 4

// TableLayout is one table inside a cafeteria floor plan.
type TableLayout struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

type Cafeteria struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	OrgID    uint           `json:"orgID" gorm:"index;not null"`
	Name     string         `json:"name" gorm:"not null"`
	Capacity int            `json:"capacity"` // derived: len(layout) * SeatsPerTable
	Layout   datatypes.JSON `json:"layout" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}

// Tables decodes the stored layout.
func (c *Cafeteria) Tables() ([]TableLayout, error) {
	if len(c.Layout) == 0 {
		return nil, nil
	}
	var tables []TableLayout
	if err := json.Unmarshal(c.Layout, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// SetLayout stores the layout and re-derives capacity.
func (c *Cafeteria) SetLayout(tables []TableLayout) error {
	raw, err := json.Marshal(tables)
	if err != nil {
		return err
	}
	c.Layout = raw
	c.Capacity = len(tables) * SeatsPerTable
	return nil
}

type MeetingRoom struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	OrgID     uint           `json:"orgID" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"not null"`
	Capacity  int            `json:"capacity" gorm:"not null"`
	Amenities datatypes.JSON `json:"amenities" gorm:"type:jsonb"`
	Floor     int            `json:"floor"`
	Location  string         `json:"location"` // e.g. "Tower B"
	ImageURL  string         `json:"imageURL"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`
}
