package models

import (
	"time"

	"gorm.io/datatypes"
)

// RequestStatus is the lifecycle state of a second-opinion request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusRejected  RequestStatus = "rejected"
	StatusCompleted RequestStatus = "completed"
)

// RequestStatuses lists every accepted status, in lifecycle order.
var RequestStatuses = []RequestStatus{StatusPending, StatusAccepted, StatusRejected, StatusCompleted}

func (s RequestStatus) Valid() bool {
	for _, status := range RequestStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type SecondOpinionRequest struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	PatientID     uint                        `gorm:"not null;index" json:"patientId"`
	DoctorID      uint                        `gorm:"not null;index" json:"doctorId"`
	Diagnosis     string                      `gorm:"not null" json:"diagnosis"`
	Description   string                      `gorm:"not null" json:"description"`
	DocumentLinks datatypes.JSONSlice[string] `json:"documentLinks"`
	Status        RequestStatus               `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt     time.Time                   `gorm:"not null" json:"createdAt"`

	// Relationships
	Patient User `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE" json:"-"`
}
