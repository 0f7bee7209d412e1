package api

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tgadmin/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListFryRecords 分页查询 fry 记录。代理账号只能看到自己邀请码下的记录，
// 这里通过强制 agent 过滤实现。
func (h *HTTPHandler) ListFryRecords(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "数据仓库不可用")
		return
	}

	var query entity.FryRecordQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "需要登录")
		return
	}
	if !user.IsAdmin() {
		query.Agent = user.Username
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, total, err := h.repo.ListFryRecords(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list fry records")
		InternalError(c, "查询记录失败")
		return
	}

	SuccessList(c, records, total)
}

// ExportFryRecords 按当前过滤条件导出 CSV，返回对象路径和可访问 URL
func (h *HTTPHandler) ExportFryRecords(c *gin.Context) {
	if h.repo == nil || h.exportService == nil {
		ServiceUnavailable(c, "导出服务不可用")
		return
	}

	var query entity.FryRecordQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}

	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "需要登录")
		return
	}
	if !user.IsAdmin() {
		query.Agent = user.Username
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := h.exportService.ExportFryRecords(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to export fry records")
		InternalError(c, "导出失败")
		return
	}

	result.URL = h.storagePublicBase + "/" + result.Object
	Success(c, result)
}

// UpdateFryRecordRemark 更新记录备注
func (h *HTTPHandler) UpdateFryRecordRemark(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "数据仓库不可用")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "无效的记录 ID")
		return
	}

	var req entity.RemarkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdateFryRecord(ctx, id, entity.FryRecordPatch{Remark: &req.Remark}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "记录不存在")
			return
		}
		logrus.WithError(err).WithField("record_id", id).Error("failed to update remark")
		InternalError(c, "更新备注失败")
		return
	}

	SuccessMessage(c, "备注更新成功")
}

// DeleteFryRecord 删除记录
func (h *HTTPHandler) DeleteFryRecord(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "数据仓库不可用")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "无效的记录 ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteFryRecord(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "记录不存在")
			return
		}
		logrus.WithError(err).WithField("record_id", id).Error("failed to delete fry record")
		InternalError(c, "删除记录失败")
		return
	}

	SuccessMessage(c, "删除成功")
}
