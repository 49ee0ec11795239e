// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fluentai-go/internal/middleware"
	"fluentai-go/internal/model"
	"fluentai-go/internal/service"
	"fluentai-go/pkg/log"
	"fluentai-go/pkg/token"
)

// UserHandler 负责处理身份与档案相关的 API 请求。
type UserHandler struct {
	userService service.UserService
	jwtManager  *token.JWTManager
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService, jwtManager *token.JWTManager) *UserHandler {
	return &UserHandler{userService: userService, jwtManager: jwtManager}
}

// LoginRequest 定义了登录 API 的请求体结构。
type LoginRequest struct {
	Name string `json:"name" binding:"required"`
}

// Login 处理登录请求。同一个名字（忽略大小写与空白差异）永远回到同一个账号。
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：name 不能为空"})
		return
	}

	identity, profile, err := h.userService.Login(c.Request.Context(), req.Name)
	if err != nil {
		log.Warnf("Login: failed for name %q, error: %v", req.Name, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "登录失败"})
		return
	}

	tokenString, err := h.jwtManager.GenerateToken(identity.ID, identity.DisplayName)
	if err != nil {
		log.Errorf("Login: failed to generate token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "生成 token 失败"})
		return
	}

	log.Infof("User logged in: %s", identity.ID)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Login successful",
		"data": gin.H{
			"token":      tokenString,
			"user":       identity,
			"profile":    profile,
			"workingSet": h.userService.WorkingSet(c.Request.Context(), identity.ID),
		},
	})
}

// Logout 处理登出请求。只清除当前用户指针，用户数据全部保留。
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(c.Request.Context()); err != nil {
		log.Errorf("Logout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登出失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "Logout successful", "data": nil})
}

// Me 返回当前请求身份对应的档案。
func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.UserID(c)
	profile := h.userService.Profile(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data": gin.H{
			"user":    model.UserIdentity{ID: userID, DisplayName: c.GetString(middleware.ContextDisplayName)},
			"profile": profile,
		},
	})
}

// UpdateProfileRequest 定义了档案更新 API 的请求体结构。
type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"required"`
	Level  string `json:"level" binding:"required"`
	Avatar string `json:"avatar" binding:"required"`
}

// UpdateProfile 整体替换当前用户的档案。
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}

	userID := middleware.UserID(c)
	profile := model.UserProfile{Name: req.Name, Level: req.Level, Avatar: req.Avatar}
	if err := h.userService.UpdateProfile(c.Request.Context(), userID, profile); err != nil {
		log.Errorf("UpdateProfile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存档案失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": profile})
}

// Purge 把当前用户的全部学习数据重置为初始状态，用户保持登录。
func (h *UserHandler) Purge(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := h.userService.Purge(c.Request.Context(), userID); err != nil {
		log.Errorf("Purge: failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "重置数据失败"})
		return
	}
	log.Infof("User data purged: %s", userID)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "All data purged", "data": nil})
}
