package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tgadmin/internal/entity"
	"tgadmin/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListAgents 分页查询代理账号。无论请求参数如何，角色过滤固定为 agent，
// 管理员账号不会出现在列表里。
func (h *HTTPHandler) ListAgents(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "数据仓库不可用")
		return
	}

	var query entity.UserQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		InvalidPayload(c)
		return
	}
	query.Role = entity.UserRoleAgent

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	agents, total, err := h.repo.ListUsers(ctx, &query)
	if err != nil {
		logrus.WithError(err).Error("failed to list agents")
		InternalError(c, "查询代理失败")
		return
	}

	SuccessList(c, agents, total)
}

// CreateAgent 创建代理账号并生成邀请码
func (h *HTTPHandler) CreateAgent(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "数据仓库不可用")
		return
	}

	var req entity.AgentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	_, err := h.repo.GetUserByUsername(ctx, username)
	if err == nil {
		FailOK(c, "用户名已存在")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithError(err).Error("failed to check username availability")
		InternalError(c, "创建代理失败")
		return
	}

	user, err := model.CreateUserAccount(ctx, h.repo, username, req.Password, entity.UserRoleAgent)
	if err != nil {
		logrus.WithError(err).WithField("username", username).Error("failed to create agent account")
		InternalError(c, "创建代理失败")
		return
	}

	c.JSON(http.StatusOK, entity.Response{Success: true, Data: user, Message: "代理创建成功"})
}

// DeleteAgent 删除代理账号。管理员账号禁止删除。
func (h *HTTPHandler) DeleteAgent(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "数据仓库不可用")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "无效的用户 ID")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	target, err := h.repo.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "用户不存在")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to load user")
		InternalError(c, "删除代理失败")
		return
	}

	if target.Role == entity.UserRoleAdmin {
		BadRequest(c, "不能删除管理员账户")
		return
	}

	if err := h.repo.DeleteUser(ctx, target.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "用户不存在")
			return
		}
		logrus.WithError(err).WithField("user_id", id).Error("failed to delete agent")
		InternalError(c, "删除代理失败")
		return
	}

	SuccessMessage(c, "删除成功")
}
