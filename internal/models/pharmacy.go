package models

import "gorm.io/datatypes"

type Pharmacy struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Name            string                      `gorm:"not null" json:"name"`
	Address         string                      `gorm:"not null" json:"address"`
	City            string                      `gorm:"not null;index" json:"city"`
	Region          string                      `gorm:"not null;index" json:"region"`
	Phone           *string                     `json:"phone"`
	Specializations datatypes.JSONSlice[string] `json:"specializations"`
	Rating          *int                        `json:"rating"`
	ReviewCount     int                         `gorm:"default:0" json:"reviewCount"`
	ImageURL        *string                     `json:"imageUrl"`
	Latitude        *string                     `json:"latitude"`
	Longitude       *string                     `json:"longitude"`
}

// HasSpecialization reports whether tag is one of the pharmacy's specializations.
func (p Pharmacy) HasSpecialization(tag string) bool {
	for _, s := range p.Specializations {
		if s == tag {
			return true
		}
	}
	return false
}

type Testimonial struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"not null" json:"name"`
	Role     string  `gorm:"not null" json:"role"`
	Location string  `gorm:"not null" json:"location"`
	Content  string  `gorm:"not null" json:"content"`
	Rating   int     `gorm:"not null" json:"rating"`
	ImageURL *string `json:"imageUrl"`
}
