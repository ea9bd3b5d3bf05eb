package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	OrgID        uint   `json:"orgID" gorm:"index;not null"`
	FullName     string `json:"fullName"`
	Email        string `json:"email" gorm:"uniqueIndex"`
	EmployeeID   string `json:"employeeID" gorm:"size:32"`
	MobileNumber string `json:"mobileNumber" gorm:"size:32"`
	Role         string `json:"role" gorm:"type:varchar(20);default:user;index"` // user, admin

	Bookings []Booking `json:"bookings" gorm:"foreignKey:UserID"`
}
