package sql

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"tgadmin/internal/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepo opens a private in-memory database per test.
func newTestRepo(t *testing.T) *GormRepository {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&entity.DbUser{}, &entity.DbFryRecord{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	return NewGormRepository(db)
}

func mustCreateUser(t *testing.T, repo *GormRepository, username, role, inviteCode string, createdAt int64) *entity.DbUser {
	t.Helper()
	user := &entity.DbUser{
		Username:   username,
		Password:   "$2a$10$not-a-real-hash-but-not-plaintext",
		Role:       role,
		InviteCode: inviteCode,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func mustCreateRecord(t *testing.T, repo *GormRepository, phone, inviteCode string, createdAt int64) *entity.DbFryRecord {
	t.Helper()
	record := &entity.DbFryRecord{
		Phone:        phone,
		URL:          "https://example.invalid/session",
		InviteCode:   inviteCode,
		DcAuthKey:    "auth-key",
		DcServerSalt: "server-salt",
		UserAuthDcID: 2,
		UserAuthDate: createdAt,
		UserAuthID:   100200300,
		StateID:      "state-1",
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := repo.CreateFryRecord(context.Background(), record); err != nil {
		t.Fatalf("create record %s: %v", phone, err)
	}
	return record
}
