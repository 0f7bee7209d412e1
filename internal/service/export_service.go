package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tgadmin/internal/entity"
	"tgadmin/internal/model"
	"tgadmin/internal/storage"
)

// exportPageSize is the repository page size used while draining the match set.
const exportPageSize = 100

// ExportService renders filtered fry-record sets to CSV and persists the
// snapshot through the configured storage backend.
type ExportService struct {
	repo  model.Repository
	store storage.Storage
}

// NewExportService 创建导出服务实例
func NewExportService(repo model.Repository, store storage.Storage) *ExportService {
	return &ExportService{repo: repo, store: store}
}

// ExportFryRecords snapshots every record matching the filters, ignoring the
// caller's pagination: a snapshot always covers the full match set. The
// session credential fields are deliberately left out of the CSV.
func (s *ExportService) ExportFryRecords(ctx context.Context, params *entity.FryRecordQuery) (*entity.ExportResult, error) {
	if s == nil || s.repo == nil {
		return nil, errors.New("export service not initialised")
	}
	if s.store == nil {
		return nil, errors.New("export storage not configured")
	}

	query := entity.FryRecordQuery{}
	if params != nil {
		query = *params
	}
	query.Page = 1
	query.PageSize = exportPageSize

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	header := []string{"id", "phone", "url", "invite_code", "remark", "created_at", "updated_at"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	rows := 0
	for {
		records, _, err := s.repo.ListFryRecords(ctx, &query)
		if err != nil {
			return nil, fmt.Errorf("list records for export: %w", err)
		}
		for i := range records {
			record := &records[i]
			line := []string{
				strconv.FormatInt(record.ID, 10),
				record.Phone,
				record.URL,
				record.InviteCode,
				record.Remark,
				strconv.FormatInt(record.CreatedAt, 10),
				strconv.FormatInt(record.UpdatedAt, 10),
			}
			if err := writer.Write(line); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
			rows++
		}
		if len(records) < exportPageSize {
			break
		}
		query.Page++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	object, err := s.store.Save(ctx, buf.Bytes(), storage.SaveOptions{
		Category:  "fry-records",
		Extension: "csv",
		BaseName:  fmt.Sprintf("fry-records-%d", time.Now().Unix()),
	})
	if err != nil {
		return nil, fmt.Errorf("persist export: %w", err)
	}

	return &entity.ExportResult{Object: object, Rows: rows}, nil
}
