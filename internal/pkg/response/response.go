package response

import (
	"Reunite/internal/service"
	"errors"
	log "log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	Ok                  = 200
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

// 对外只暴露按状态码固定的文案，内部错误细节只进日志
var statusMessages = map[int]string{
	BadRequest:          "Invalid request",
	Unauthorized:        "Unauthorized",
	NotFound:            "Not found",
	InternalServerError: "Internal server error",
}

// Success 成功返回，直接输出业务数据本体
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, data)
}

// Message 成功返回一条提示文案
func Message(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, gin.H{"message": message})
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error 把业务错误翻译成 HTTP 状态码与固定文案
func Error(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		Fail(c, BadRequest, statusMessages[BadRequest])
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		Fail(c, BadRequest, statusMessages[BadRequest])
		return
	}

	status, ok := service.ErrorMap[err]
	if !ok {
		status = InternalServerError
	}
	if status == InternalServerError {
		log.ErrorContext(c.Request.Context(), "unexpected error", "err", err)
	}
	Fail(c, status, statusMessages[status])
}
