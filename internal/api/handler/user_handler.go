package handler

import (
	"Reunite/internal/api/dto"
	"Reunite/internal/pkg/response"
	"Reunite/internal/service"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{
		userService: s,
	}
}

// Register 用户注册
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := h.userService.Register(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Registered successfully")
}

// Login 登录换取 JWT
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.CredentialDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.LoginResultDTO{Token: token})
}

// Logout 吊销当前 token
func (h *UserHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")

	if err := h.userService.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "Logged out")
}

// GetUserInfo 当前用户信息
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")

	user, err := h.userService.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}
