package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"tgadmin/internal/auth"
	"tgadmin/internal/entity"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Login 用户登录：校验口令并签发 Token。失败时返回统一提示，
// 不区分用户名不存在和密码错误。
func (h *HTTPHandler) Login(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "用户仓库不可用")
		return
	}

	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Error("failed to load user during login")
			InternalError(c, "登录失败")
			return
		}
		c.JSON(http.StatusOK, entity.LoginResponse{Success: false, Message: "用户名或密码错误"})
		return
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		logrus.WithField("username", user.Username).Warn("password verification failed")
		c.JSON(http.StatusOK, entity.LoginResponse{Success: false, Message: "用户名或密码错误"})
		return
	}

	token, _, err := h.authManager.GenerateToken(user)
	if err != nil {
		logrus.WithError(err).Error("failed to generate token")
		InternalError(c, "创建会话失败")
		return
	}

	c.JSON(http.StatusOK, entity.LoginResponse{
		Success: true,
		Token:   token,
		User:    user,
		Message: "登录成功",
	})
}

// Logout 用户登出。Token 无服务端状态，这里只做确认应答。
func (h *HTTPHandler) Logout(c *gin.Context) {
	SuccessMessage(c, "登出成功")
}

// Me 获取当前用户信息
func (h *HTTPHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "需要登录")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user profile")
		InternalError(c, "加载用户信息失败")
		return
	}

	Success(c, dbUser)
}
