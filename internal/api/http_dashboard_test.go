package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"tgadmin/internal/entity"
)

func (ts *testServer) mustSeedRecord(t *testing.T, phone, inviteCode string, createdAt int64) *entity.DbFryRecord {
	t.Helper()
	record := &entity.DbFryRecord{
		Phone:        phone,
		URL:          "https://example.invalid/session",
		InviteCode:   inviteCode,
		DcAuthKey:    "auth-key",
		DcServerSalt: "salt",
		UserAuthDcID: 2,
		UserAuthDate: createdAt,
		UserAuthID:   1,
		StateID:      "state",
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := ts.repo.CreateFryRecord(t.Context(), record); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return record
}

func (ts *testServer) agentInviteCode(t *testing.T, username string) string {
	t.Helper()
	user, err := ts.repo.GetUserByUsername(t.Context(), username)
	if err != nil {
		t.Fatalf("load user %s: %v", username, err)
	}
	return user.InviteCode
}

func TestListFryRecords(t *testing.T) {
	ts := newTestServer(t)
	aliceCode := ts.agentInviteCode(t, "alice")

	ts.mustSeedRecord(t, "+8613800000001", aliceCode, 1700000000)
	ts.mustSeedRecord(t, "+8613800000002", "", 1700000001)
	ts.mustSeedRecord(t, "+79261234567", "zzzzzz", 1700000002)

	adminToken := ts.login(t, "admin", "admin123")
	aliceToken := ts.login(t, "alice", "alice123")

	t.Run("管理员看到全部记录", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records", adminToken, nil)
		resp := decodeEnvelope(t, w)
		if resp.Total == nil || *resp.Total != 3 {
			t.Fatalf("expected total=3, got %v", resp.Total)
		}
	})

	t.Run("代理只看到自己邀请码下的记录", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records", aliceToken, nil)
		resp := decodeEnvelope(t, w)
		if resp.Total == nil || *resp.Total != 1 {
			t.Fatalf("expected total=1, got %v (body: %s)", resp.Total, w.Body.String())
		}
	})

	t.Run("代理的 agent 参数被服务端覆盖", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records?agent=admin", aliceToken, nil)
		resp := decodeEnvelope(t, w)
		if resp.Total == nil || *resp.Total != 1 {
			t.Fatalf("expected agent override, got total=%v", resp.Total)
		}
	})

	t.Run("非法日期被静默忽略", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records?date=2024-13-01", adminToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp := decodeEnvelope(t, w)
		if resp.Total == nil || *resp.Total != 3 {
			t.Fatalf("expected full set with ignored date, got %v", resp.Total)
		}
	})

	t.Run("手机号子串过滤", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records?phone=138", adminToken, nil)
		resp := decodeEnvelope(t, w)
		if resp.Total == nil || *resp.Total != 2 {
			t.Fatalf("expected total=2, got %v", resp.Total)
		}
	})

	t.Run("分页保持总数不变", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records?page=1&pageSize=2", adminToken, nil)
		resp := decodeEnvelope(t, w)
		if resp.Total == nil || *resp.Total != 3 {
			t.Fatalf("expected total=3, got %v", resp.Total)
		}
		raw, _ := json.Marshal(resp.Data)
		var rows []entity.DbFryRecord
		if err := json.Unmarshal(raw, &rows); err != nil {
			t.Fatalf("decode rows: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows on page, got %d", len(rows))
		}
	})
}

func TestUpdateFryRecordRemark(t *testing.T) {
	ts := newTestServer(t)
	record := ts.mustSeedRecord(t, "+8613800000001", "", 1700000000)
	token := ts.login(t, "admin", "admin123")

	t.Run("更新成功", func(t *testing.T) {
		path := fmt.Sprintf("/dashboard/fry-records/%d/remark", record.ID)
		w := ts.do(t, http.MethodPut, path, token, entity.RemarkUpdateRequest{Remark: "重点客户"})
		resp := decodeEnvelope(t, w)
		if !resp.Success || resp.Message != "备注更新成功" {
			t.Fatalf("unexpected response: %s", w.Body.String())
		}

		stored, err := ts.repo.GetFryRecord(t.Context(), record.ID)
		if err != nil {
			t.Fatalf("reload record: %v", err)
		}
		if stored.Remark != "重点客户" {
			t.Fatalf("remark not persisted: %q", stored.Remark)
		}
	})

	t.Run("记录不存在返回 404", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/dashboard/fry-records/99999/remark", token, entity.RemarkUpdateRequest{Remark: "x"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("非法 ID 返回 400", func(t *testing.T) {
		w := ts.do(t, http.MethodPut, "/dashboard/fry-records/abc/remark", token, entity.RemarkUpdateRequest{Remark: "x"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestDeleteFryRecord(t *testing.T) {
	ts := newTestServer(t)
	record := ts.mustSeedRecord(t, "+8613800000001", "", 1700000000)
	token := ts.login(t, "admin", "admin123")

	path := fmt.Sprintf("/dashboard/fry-records/%d", record.ID)
	w := ts.do(t, http.MethodDelete, path, token, nil)
	resp := decodeEnvelope(t, w)
	if !resp.Success || resp.Message != "删除成功" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	// 再次删除同一条记录应返回 404
	w = ts.do(t, http.MethodDelete, path, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestExportFryRecordsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	aliceCode := ts.agentInviteCode(t, "alice")
	ts.mustSeedRecord(t, "+8613800000001", aliceCode, 1700000000)
	ts.mustSeedRecord(t, "+79261234567", "", 1700000001)

	t.Run("管理员导出全部", func(t *testing.T) {
		token := ts.login(t, "admin", "admin123")
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records/export", token, nil)
		resp := decodeEnvelope(t, w)
		if !resp.Success {
			t.Fatalf("export failed: %s", w.Body.String())
		}

		raw, _ := json.Marshal(resp.Data)
		var result entity.ExportResult
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("decode export result: %v", err)
		}
		if result.Rows != 2 {
			t.Fatalf("expected 2 exported rows, got %d", result.Rows)
		}
		if result.Object == "" || result.URL == "" {
			t.Fatalf("expected object path and url, got %+v", result)
		}
	})

	t.Run("代理导出被限制在自己的记录", func(t *testing.T) {
		token := ts.login(t, "alice", "alice123")
		w := ts.do(t, http.MethodGet, "/dashboard/fry-records/export", token, nil)
		resp := decodeEnvelope(t, w)
		if !resp.Success {
			t.Fatalf("export failed: %s", w.Body.String())
		}

		raw, _ := json.Marshal(resp.Data)
		var result entity.ExportResult
		if err := json.Unmarshal(raw, &result); err != nil {
			t.Fatalf("decode export result: %v", err)
		}
		if result.Rows != 1 {
			t.Fatalf("expected 1 exported row, got %d", result.Rows)
		}
	})
}
