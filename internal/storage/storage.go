// Package storage is the only gateway between route handlers and the
// relational store.
package storage

import (
	"context"

	"github.com/freee021022/onco/internal/apperr"
	"github.com/freee021022/onco/internal/models"
)

// ErrNotFound matches (via errors.Is) every lookup miss returned by a Storage.
var ErrNotFound = apperr.ErrNotFound

type Storage interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetDoctors(ctx context.Context) ([]models.User, error)

	GetForumCategories(ctx context.Context) ([]models.ForumCategory, error)
	GetForumPosts(ctx context.Context) ([]models.ForumPost, error)
	GetForumPostsByCategory(ctx context.Context, categoryID uint) ([]models.ForumPost, error)
	GetForumPost(ctx context.Context, id uint) (*models.ForumPost, error)
	IncrementPostViewCount(ctx context.Context, id uint) error
	GetForumCommentsByPost(ctx context.Context, postID uint) ([]models.ForumComment, error)
	// CreateForumPost inserts the post and bumps its category's post count
	// in one transaction.
	CreateForumPost(ctx context.Context, post *models.ForumPost) error
	// CreateForumComment inserts the comment and bumps its post's comment
	// count in one transaction.
	CreateForumComment(ctx context.Context, comment *models.ForumComment) error

	GetSecondOpinionRequests(ctx context.Context) ([]models.SecondOpinionRequest, error)
	GetSecondOpinionRequestsByPatient(ctx context.Context, patientID uint) ([]models.SecondOpinionRequest, error)
	GetSecondOpinionRequestsByDoctor(ctx context.Context, doctorID uint) ([]models.SecondOpinionRequest, error)
	CreateSecondOpinionRequest(ctx context.Context, request *models.SecondOpinionRequest) error
	UpdateSecondOpinionRequestStatus(ctx context.Context, id uint, status models.RequestStatus) (*models.SecondOpinionRequest, error)

	GetMessages(ctx context.Context, userID uint) ([]models.Message, error)
	GetConversation(ctx context.Context, userA, userB uint) ([]models.Message, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	MarkMessageAsRead(ctx context.Context, id uint) error

	GetPharmacies(ctx context.Context) ([]models.Pharmacy, error)
	GetPharmaciesByRegion(ctx context.Context, region string) ([]models.Pharmacy, error)
	GetPharmaciesByCity(ctx context.Context, city string) ([]models.Pharmacy, error)
	GetPharmaciesBySpecialization(ctx context.Context, specialization string) ([]models.Pharmacy, error)

	GetTestimonials(ctx context.Context) ([]models.Testimonial, error)

	Ping(ctx context.Context) error
}

// ReconcileResult counts the rows whose denormalized counters were corrected.
type ReconcileResult struct {
	Categories int64
	Posts      int64
}

// Reconciler recomputes denormalized counters from their child tables.
type Reconciler interface {
	ReconcileCounters(ctx context.Context) (ReconcileResult, error)
}
