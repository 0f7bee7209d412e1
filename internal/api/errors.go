package api

import (
	"net/http"

	"tgadmin/internal/entity"

	"github.com/gin-gonic/gin"
)

// Success 返回带数据的成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, entity.Response{Success: true, Data: data})
}

// SuccessMessage 返回仅带提示消息的成功响应
func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, entity.Response{Success: true, Message: message})
}

// SuccessList 返回列表响应，total 为分页前的匹配行数
func SuccessList(c *gin.Context, data any, total int64) {
	c.JSON(http.StatusOK, entity.Response{Success: true, Data: data, Total: &total})
}

// Fail 返回给定状态码的失败响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, entity.Response{Success: false, Message: message})
}

// FailOK 返回业务失败：HTTP 200 但 success=false（如用户名冲突）
func FailOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, entity.Response{Success: false, Message: message})
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	Fail(c, http.StatusServiceUnavailable, message)
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	Fail(c, http.StatusBadRequest, "无效的请求参数")
}
