package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Staff is the employment record attached to a user account.
type Staff struct {
	ID               uint               `json:"id" gorm:"primaryKey"`
	UserID           uint               `json:"user_id" gorm:"uniqueIndex;not null"`
	User             *User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	EmployeeID       string             `json:"employee_id" gorm:"uniqueIndex;not null"`
	Department       Department         `json:"department" gorm:"type:varchar(16);not null;index"`
	JoinDate         time.Time          `json:"join_date" gorm:"index"`
	Salary           decimal.Decimal    `json:"salary" gorm:"type:numeric(12,2);not null"`
	Shift            Shift              `json:"shift" gorm:"type:varchar(16);not null"`
	Address          Address            `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	EmergencyContact EmergencyContact   `json:"emergency_contact" gorm:"embedded;embeddedPrefix:emergency_"`
	Performance      []StaffPerformance `json:"performance" gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func (Staff) TableName() string { return "staff" }

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// StaffPerformance is one dated review of a staff member.
type StaffPerformance struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StaffID  uint      `json:"staff_id" gorm:"not null;index"`
	Date     time.Time `json:"date"`
	Rating   int       `json:"rating" gorm:"not null"`
	Comments string    `json:"comments"`
}

const (
	MinPerformanceRating = 1
	MaxPerformanceRating = 5
)

type Department string

const (
	DepartmentKitchen    Department = "Kitchen"
	DepartmentService    Department = "Service"
	DepartmentManagement Department = "Management"
	DepartmentCashier    Department = "Cashier"
	DepartmentCleaning   Department = "Cleaning"
)

func (d Department) Valid() bool {
	switch d {
	case DepartmentKitchen, DepartmentService, DepartmentManagement, DepartmentCashier, DepartmentCleaning:
		return true
	}
	return false
}

type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
	ShiftNight   Shift = "Night"
	ShiftFullDay Shift = "Full Day"
)

func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftEvening, ShiftNight, ShiftFullDay:
		return true
	}
	return false
}
