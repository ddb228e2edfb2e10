package types

import (
	"gorm.io/datatypes"

	"github.com/freee021022/onco/internal/models"
)

type InsertForumCategory struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description *string `json:"description"`
}

func (c InsertForumCategory) Model() models.ForumCategory {
	return models.ForumCategory{Name: c.Name, Slug: c.Slug, Description: c.Description}
}

type InsertForumPost struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	UserID     uint   `json:"userId" binding:"required"`
	CategoryID uint   `json:"categoryId" binding:"required"`
}

func (p InsertForumPost) Model() models.ForumPost {
	return models.ForumPost{
		Title:      p.Title,
		Content:    p.Content,
		UserID:     p.UserID,
		CategoryID: p.CategoryID,
	}
}

type InsertForumComment struct {
	Content string `json:"content" binding:"required"`
	UserID  uint   `json:"userId" binding:"required"`
	PostID  uint   `json:"postId" binding:"required"`
}

func (c InsertForumComment) Model() models.ForumComment {
	return models.ForumComment{Content: c.Content, UserID: c.UserID, PostID: c.PostID}
}

// ForumPostDetail is the body of GET /api/forum/posts/:id.
type ForumPostDetail struct {
	Post     *models.ForumPost     `json:"post"`
	Comments []models.ForumComment `json:"comments"`
}

type InsertSecondOpinionRequest struct {
	PatientID     uint     `json:"patientId" binding:"required"`
	DoctorID      uint     `json:"doctorId" binding:"required"`
	Diagnosis     string   `json:"diagnosis" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	DocumentLinks []string `json:"documentLinks" binding:"omitempty,dive,required"`
}

func (r InsertSecondOpinionRequest) Model() models.SecondOpinionRequest {
	return models.SecondOpinionRequest{
		PatientID:     r.PatientID,
		DoctorID:      r.DoctorID,
		Diagnosis:     r.Diagnosis,
		Description:   r.Description,
		DocumentLinks: datatypes.JSONSlice[string](r.DocumentLinks),
		Status:        models.StatusPending,
	}
}

type UpdateStatusRequest struct {
	Status models.RequestStatus `json:"status" binding:"required,request_status"`
}

type InsertMessage struct {
	SenderID   uint   `json:"senderId" binding:"required"`
	ReceiverID uint   `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (m InsertMessage) Model() models.Message {
	return models.Message{SenderID: m.SenderID, ReceiverID: m.ReceiverID, Content: m.Content}
}

type InsertPharmacy struct {
	Name            string   `json:"name" binding:"required"`
	Address         string   `json:"address" binding:"required"`
	City            string   `json:"city" binding:"required"`
	Region          string   `json:"region" binding:"required"`
	Phone           *string  `json:"phone"`
	Specializations []string `json:"specializations"`
	Rating          *int     `json:"rating" binding:"omitempty,min=0,max=5"`
	ImageURL        *string  `json:"imageUrl"`
	Latitude        *string  `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *string  `json:"longitude" binding:"omitempty,longitude"`
}

func (p InsertPharmacy) Model() models.Pharmacy {
	return models.Pharmacy{
		Name:            p.Name,
		Address:         p.Address,
		City:            p.City,
		Region:          p.Region,
		Phone:           p.Phone,
		Specializations: datatypes.JSONSlice[string](p.Specializations),
		Rating:          p.Rating,
		ImageURL:        p.ImageURL,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
	}
}

type InsertTestimonial struct {
	Name     string  `json:"name" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	Location string  `json:"location" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	Rating   int     `json:"rating" binding:"required,min=1,max=5"`
	ImageURL *string `json:"imageUrl"`
}

func (t InsertTestimonial) Model() models.Testimonial {
	return models.Testimonial{
		Name:     t.Name,
		Role:     t.Role,
		Location: t.Location,
		Content:  t.Content,
		Rating:   t.Rating,
		ImageURL: t.ImageURL,
	}
}
