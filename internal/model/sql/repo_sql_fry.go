package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tgadmin/internal/entity"

	"gorm.io/gorm"
)

// 日期过滤按服务器本地时区解释一个自然日
const dayLayout = "2006-01-02"

// CreateFryRecord inserts a captured session record.
func (r *GormRepository) CreateFryRecord(ctx context.Context, record *entity.DbFryRecord) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if record == nil {
		return fmt.Errorf("record is nil")
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// UpdateFryRecord applies the patch to an existing record. Fields left nil
// are not touched. Returns gorm.ErrRecordNotFound when the id does not
// resolve.
func (r *GormRepository) UpdateFryRecord(ctx context.Context, id int64, patch entity.FryRecordPatch) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid record id")
	}

	var record entity.DbFryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"updated_at": time.Now().Unix(),
	}
	if patch.Remark != nil {
		updates["remark"] = *patch.Remark
	}
	if patch.Pwd != nil {
		updates["pwd"] = *patch.Pwd
	}
	return r.db.WithContext(ctx).Model(&entity.DbFryRecord{}).Where("id = ?", id).Updates(updates).Error
}

// GetFryRecord loads a record by ID.
func (r *GormRepository) GetFryRecord(ctx context.Context, id int64) (*entity.DbFryRecord, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid record id")
	}
	var record entity.DbFryRecord
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListFryRecords returns paginated records plus the total count before
// pagination. Filters compose conjunctively:
//   - date: records whose created_at falls inside the local-time day;
//     a malformed value is silently ignored
//   - phone: substring match
//   - agent: records carrying that user's invite code; silently ignored
//     when the username does not resolve to a user with an invite code
func (r *GormRepository) ListFryRecords(ctx context.Context, params *entity.FryRecordQuery) ([]entity.DbFryRecord, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbFryRecord{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Date); trimmed != "" {
			if dayStart, err := time.ParseInLocation(dayLayout, trimmed, time.Local); err == nil {
				start := dayStart.Unix()
				query = query.Where("created_at >= ? AND created_at < ?", start, start+86400)
			}
		}
		if trimmed := strings.TrimSpace(params.Phone); trimmed != "" {
			query = query.Where("phone LIKE ?", "%"+trimmed+"%")
		}
		if trimmed := strings.TrimSpace(params.Agent); trimmed != "" {
			agentUser, err := r.GetUserByUsername(ctx, trimmed)
			switch {
			case err == nil && agentUser.InviteCode != "":
				query = query.Where("invite_code = ?", agentUser.InviteCode)
			case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, 0, err
			}
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := 1, 20
	if params != nil {
		page, pageSize = normalisePage(params.Page, params.PageSize)
	}
	offset := (page - 1) * pageSize

	var records []entity.DbFryRecord
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// DeleteFryRecord removes a record by ID.
func (r *GormRepository) DeleteFryRecord(ctx context.Context, id int64) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid record id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbFryRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
