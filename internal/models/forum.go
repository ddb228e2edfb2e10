package models

import "time"

type ForumCategory struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Slug        string  `gorm:"uniqueIndex;not null" json:"slug"`
	Description *string `json:"description"`
	PostCount   int     `gorm:"not null;default:0" json:"postCount"` // Denormalized, see storage.ReconcileCounters

	// Relationships
	Posts []ForumPost `gorm:"foreignKey:CategoryID" json:"-"`
}

type ForumPost struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Content      string    `gorm:"not null" json:"content"`
	UserID       uint      `gorm:"not null;index" json:"userId"`
	CategoryID   uint      `gorm:"not null;index" json:"categoryId"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	ViewCount    int       `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`

	// Relationships
	Author   User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE" json:"-"`
	Category ForumCategory  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE" json:"-"`
	Comments []ForumComment `gorm:"foreignKey:PostID" json:"-"`
}

type ForumComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`

	// Relationships
	Author User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE" json:"-"`
	Post   ForumPost `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE" json:"-"`
}
