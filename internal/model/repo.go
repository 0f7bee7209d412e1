package model

import (
	"context"

	"tgadmin/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, patch entity.UserPatch) error
	GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	GetUserByInviteCode(ctx context.Context, code string) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, int64, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// Fry 记录
	CreateFryRecord(ctx context.Context, record *entity.DbFryRecord) error
	UpdateFryRecord(ctx context.Context, id int64, patch entity.FryRecordPatch) error
	GetFryRecord(ctx context.Context, id int64) (*entity.DbFryRecord, error)
	ListFryRecords(ctx context.Context, params *entity.FryRecordQuery) ([]entity.DbFryRecord, int64, error)
	DeleteFryRecord(ctx context.Context, id int64) error
}
