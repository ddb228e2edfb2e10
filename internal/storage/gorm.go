package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freee021022/onco/internal/apperr"
	"github.com/freee021022/onco/internal/models"
)

// GormStorage implements Storage on top of a gorm handle.
type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

func (s *GormStorage) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.CodeNotFound, message, err)
	}
	return err
}

func (s *GormStorage) first(ctx context.Context, dest interface{}, message string, query string, args ...interface{}) error {
	if err := s.conn(ctx).Where(query, args...).First(dest).Error; err != nil {
		return notFound(err, message)
	}
	return nil
}

// isDuplicate covers dialects whose gorm driver does not translate unique
// violations into gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "Duplicate entry")
}

// requireUser fails with NotFound unless a user with id exists.
func requireUser(tx *gorm.DB, id uint, message string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.New(apperr.CodeNotFound, message)
	}
	return nil
}

func (s *GormStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "User not found", "id = ?", id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "User not found", "username = ?", username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.first(ctx, &user, "User not found", "email = ?", email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStorage) CreateUser(ctx context.Context, user *models.User) error {
	user.IsVerified = false

	if err := s.conn(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return apperr.Wrap(apperr.CodeConflict, "Username or email already registered", err)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStorage) GetDoctors(ctx context.Context) ([]models.User, error) {
	var doctors []models.User
	if err := s.conn(ctx).Where("is_doctor = ?", true).Order("id").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *GormStorage) GetForumCategories(ctx context.Context) ([]models.ForumCategory, error) {
	var categories []models.ForumCategory
	if err := s.conn(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *GormStorage) GetForumPosts(ctx context.Context) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if err := s.conn(ctx).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *GormStorage) GetForumPostsByCategory(ctx context.Context, categoryID uint) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	err := s.conn(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *GormStorage) GetForumPost(ctx context.Context, id uint) (*models.ForumPost, error) {
	var post models.ForumPost
	if err := s.first(ctx, &post, "Post not found", "id = ?", id); err != nil {
		return nil, err
	}
	return &post, nil
}

// increment adds one to column in the database, so concurrent writers never
// overwrite each other's update.
func increment(tx *gorm.DB, model interface{}, id uint, column string) *gorm.DB {
	return tx.Model(model).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
}

func (s *GormStorage) IncrementPostViewCount(ctx context.Context, id uint) error {
	res := increment(s.conn(ctx), &models.ForumPost{}, id, "view_count")
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.CodeNotFound, "Post not found")
	}
	return nil
}

func (s *GormStorage) GetForumCommentsByPost(ctx context.Context, postID uint) ([]models.ForumComment, error) {
	var comments []models.ForumComment
	err := s.conn(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *GormStorage) CreateForumPost(ctx context.Context, post *models.ForumPost) error {
	post.ViewCount = 0
	post.CommentCount = 0

	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, post.UserID, "User not found"); err != nil {
			return err
		}

		res := increment(tx, &models.ForumCategory{}, post.CategoryID, "post_count")
		if res.Error != nil {
			return fmt.Errorf("increment post count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.CodeNotFound, "Category not found")
		}

		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return nil
	})
}

func (s *GormStorage) CreateForumComment(ctx context.Context, comment *models.ForumComment) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, comment.UserID, "User not found"); err != nil {
			return err
		}

		res := increment(tx, &models.ForumPost{}, comment.PostID, "comment_count")
		if res.Error != nil {
			return fmt.Errorf("increment comment count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.CodeNotFound, "Post not found")
		}

		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
}

func (s *GormStorage) findRequests(ctx context.Context, query string, args ...interface{}) ([]models.SecondOpinionRequest, error) {
	var requests []models.SecondOpinionRequest
	db := s.conn(ctx)
	if query != "" {
		db = db.Where(query, args...)
	}
	if err := db.Order("created_at DESC, id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *GormStorage) GetSecondOpinionRequests(ctx context.Context) ([]models.SecondOpinionRequest, error) {
	return s.findRequests(ctx, "")
}

func (s *GormStorage) GetSecondOpinionRequestsByPatient(ctx context.Context, patientID uint) ([]models.SecondOpinionRequest, error) {
	return s.findRequests(ctx, "patient_id = ?", patientID)
}

func (s *GormStorage) GetSecondOpinionRequestsByDoctor(ctx context.Context, doctorID uint) ([]models.SecondOpinionRequest, error) {
	return s.findRequests(ctx, "doctor_id = ?", doctorID)
}

func (s *GormStorage) CreateSecondOpinionRequest(ctx context.Context, request *models.SecondOpinionRequest) error {
	request.Status = models.StatusPending

	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, request.PatientID, "Patient not found"); err != nil {
			return err
		}
		if err := requireUser(tx, request.DoctorID, "Doctor not found"); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(request).Error; err != nil {
			return fmt.Errorf("create second opinion request: %w", err)
		}
		return nil
	})
}

func (s *GormStorage) UpdateSecondOpinionRequestStatus(ctx context.Context, id uint, status models.RequestStatus) (*models.SecondOpinionRequest, error) {
	var request models.SecondOpinionRequest

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, id).Error; err != nil {
			return notFound(err, "Request not found")
		}
		if err := tx.Model(&request).UpdateColumn("status", status).Error; err != nil {
			return fmt.Errorf("update request status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	request.Status = status
	return &request, nil
}

func (s *GormStorage) GetMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.conn(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *GormStorage) GetConversation(ctx context.Context, userA, userB uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.conn(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *GormStorage) CreateMessage(ctx context.Context, message *models.Message) error {
	message.IsRead = false

	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, message.SenderID, "Sender not found"); err != nil {
			return err
		}
		if err := requireUser(tx, message.ReceiverID, "Receiver not found"); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(message).Error; err != nil {
			return fmt.Errorf("create message: %w", err)
		}
		return nil
	})
}

// MarkMessageAsRead is a no-op for unknown ids.
func (s *GormStorage) MarkMessageAsRead(ctx context.Context, id uint) error {
	return s.conn(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		UpdateColumn("is_read", true).Error
}

func (s *GormStorage) findPharmacies(ctx context.Context, query string, args ...interface{}) ([]models.Pharmacy, error) {
	var pharmacies []models.Pharmacy
	db := s.conn(ctx)
	if query != "" {
		db = db.Where(query, args...)
	}
	if err := db.Order("id").Find(&pharmacies).Error; err != nil {
		return nil, err
	}
	return pharmacies, nil
}

func (s *GormStorage) GetPharmacies(ctx context.Context) ([]models.Pharmacy, error) {
	return s.findPharmacies(ctx, "")
}

func (s *GormStorage) GetPharmaciesByRegion(ctx context.Context, region string) ([]models.Pharmacy, error) {
	return s.findPharmacies(ctx, "region = ?", region)
}

func (s *GormStorage) GetPharmaciesByCity(ctx context.Context, city string) ([]models.Pharmacy, error) {
	return s.findPharmacies(ctx, "city = ?", city)
}

// GetPharmaciesBySpecialization filters in memory: the specializations column
// is a JSON list and membership operators differ per SQL dialect.
func (s *GormStorage) GetPharmaciesBySpecialization(ctx context.Context, specialization string) ([]models.Pharmacy, error) {
	all, err := s.findPharmacies(ctx, "")
	if err != nil {
		return nil, err
	}

	matches := make([]models.Pharmacy, 0, len(all))
	for _, pharmacy := range all {
		if pharmacy.HasSpecialization(specialization) {
			matches = append(matches, pharmacy)
		}
	}
	return matches, nil
}

func (s *GormStorage) GetTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	if err := s.conn(ctx).Order("id").Find(&testimonials).Error; err != nil {
		return nil, err
	}
	return testimonials, nil
}

func (s *GormStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

const (
	reconcilePostCounts = `UPDATE forum_categories SET post_count = (
		SELECT COUNT(*) FROM forum_posts WHERE forum_posts.category_id = forum_categories.id
	) WHERE post_count <> (
		SELECT COUNT(*) FROM forum_posts WHERE forum_posts.category_id = forum_categories.id
	)`

	reconcileCommentCounts = `UPDATE forum_posts SET comment_count = (
		SELECT COUNT(*) FROM forum_comments WHERE forum_comments.post_id = forum_posts.id
	) WHERE comment_count <> (
		SELECT COUNT(*) FROM forum_comments WHERE forum_comments.post_id = forum_posts.id
	)`
)

// lockRows selects the ids of every row of model's table FOR UPDATE. Dialects
// without row locks (SQLite) drop the clause.
func lockRows(tx *gorm.DB, model interface{}, ids *[]uint) *gorm.DB {
	return tx.Model(model).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("id").
		Pluck("id", ids)
}

// ReconcileCounters rewrites cached counters that disagree with the child
// rows. Parent rows are locked before counting: an in-flight increment either
// commits before the lock is granted and is counted, or waits and applies on
// top of the corrected value.
func (s *GormStorage) ReconcileCounters(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint

		if err := lockRows(tx, &models.ForumCategory{}, &ids).Error; err != nil {
			return fmt.Errorf("lock categories: %w", err)
		}
		res := tx.Exec(reconcilePostCounts)
		if res.Error != nil {
			return fmt.Errorf("reconcile post counts: %w", res.Error)
		}
		result.Categories = res.RowsAffected

		if err := lockRows(tx, &models.ForumPost{}, &ids).Error; err != nil {
			return fmt.Errorf("lock posts: %w", err)
		}
		res = tx.Exec(reconcileCommentCounts)
		if res.Error != nil {
			return fmt.Errorf("reconcile comment counts: %w", res.Error)
		}
		result.Posts = res.RowsAffected
		return nil
	})

	return result, err
}
