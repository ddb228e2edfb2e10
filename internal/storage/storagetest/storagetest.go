// Package storagetest provides a migrated on-disk SQLite database and
// fixtures for tests that need a real store.
package storagetest

import (
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/freee021022/onco/db"
	"github.com/freee021022/onco/internal/models"
)

// NewDB returns a migrated database that is removed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "onconet.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	gdb, err := db.Connect("sqlite", dsn)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(gdb); err != nil {
			t.Errorf("close sqlite: %v", err)
		}
	})

	if err := db.MigrateDatabase(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// CreateUser inserts a user whose email is derived from username.
func CreateUser(t testing.TB, gdb *gorm.DB, username string, isDoctor bool) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: "not-a-real-hash",
		Email:    fmt.Sprintf("%s@example.com", username),
		FullName: username,
		IsDoctor: isDoctor,
	}
	if err := gdb.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

// CreateCategory inserts a forum category with the given starting post count.
func CreateCategory(t testing.TB, gdb *gorm.DB, slug string, postCount int) *models.ForumCategory {
	t.Helper()

	category := &models.ForumCategory{Name: slug, Slug: slug, PostCount: postCount}
	if err := gdb.Create(category).Error; err != nil {
		t.Fatalf("create category %s: %v", slug, err)
	}
	return category
}

// CreatePost inserts a post directly, leaving category counters untouched.
func CreatePost(t testing.TB, gdb *gorm.DB, userID, categoryID uint, title string) *models.ForumPost {
	t.Helper()

	post := &models.ForumPost{Title: title, Content: title, UserID: userID, CategoryID: categoryID}
	if err := gdb.Omit("Author", "Category", "Comments").Create(post).Error; err != nil {
		t.Fatalf("create post %s: %v", title, err)
	}
	return post
}
