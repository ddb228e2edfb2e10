package models

import "time"

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Password       string    `gorm:"not null" json:"-"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName       string    `gorm:"not null" json:"fullName"`
	IsDoctor       bool      `gorm:"not null;default:false;index" json:"isDoctor"`
	Specialization *string   `json:"specialization"`
	Hospital       *string   `json:"hospital"`
	City           *string   `json:"city"`
	Bio            *string   `json:"bio"`
	ProfileImage   *string   `json:"profileImage"`
	IsVerified     bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt      time.Time `gorm:"not null" json:"createdAt"`

	// Relationships
	Posts            []ForumPost            `gorm:"foreignKey:UserID" json:"-"`
	Comments         []ForumComment         `gorm:"foreignKey:UserID" json:"-"`
	SentMessages     []Message              `gorm:"foreignKey:SenderID" json:"-"`
	ReceivedMessages []Message              `gorm:"foreignKey:ReceiverID" json:"-"`
	PatientRequests  []SecondOpinionRequest `gorm:"foreignKey:PatientID" json:"-"`
	DoctorRequests   []SecondOpinionRequest `gorm:"foreignKey:DoctorID" json:"-"`
}
