// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"go-therapy-platform/internal/domain/entity"
	"go-therapy-platform/internal/infrastructure/database"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated sqlite database in a temp dir, closed on cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewLogger returns a logger that discards output.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Password is the plain-text password of every user created by CreateUser.
const Password = "secret-pass-123"

// CreateUser inserts an active user with the given role.
func CreateUser(t testing.TB, db *gorm.DB, email string, role entity.Role) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	first, last := entity.SplitFullName(string(role) + " " + email)
	user := &entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: first,
		LastName:  last,
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreatePatient inserts a patient user with a profile, optionally assigned
// to a therapist.
func CreatePatient(t testing.TB, db *gorm.DB, email string, therapist *entity.User) (*entity.User, *entity.PatientProfile) {
	t.Helper()

	user := CreateUser(t, db, email, entity.RolePatient)
	profile := &entity.PatientProfile{
		UserID:   user.ID,
		FullName: user.FullName(),
	}
	if therapist != nil {
		profile.TherapistID = &therapist.ID
	}
	if err := db.Omit("User", "Therapist").Create(profile).Error; err != nil {
		t.Fatalf("create patient profile: %v", err)
	}
	return user, profile
}
