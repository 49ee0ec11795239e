// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fluentai-go/internal/service"
	"fluentai-go/pkg/log"
)

// ScenarioHandler 负责处理场景目录相关的 API 请求。
type ScenarioHandler struct {
	scenarioService service.ScenarioService
}

// NewScenarioHandler 创建一个新的 ScenarioHandler 实例。
func NewScenarioHandler(scenarioService service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService}
}

// List 返回预置场景目录，支持 offset/limit 分页。
func (h *ScenarioHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	scenarios := h.scenarioService.List(offset, limit)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": scenarios})
}

// ProposeRequest 定义了定制场景 API 的请求体结构。
type ProposeRequest struct {
	Description string `json:"description" binding:"required"`
}

// Propose 根据用户描述生成一个定制场景。场景本身不入目录，
// 由前端直接拿去开会话。
func (h *ScenarioHandler) Propose(c *gin.Context) {
	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：description 不能为空"})
		return
	}

	scenario, err := h.scenarioService.Propose(c.Request.Context(), req.Description)
	if err != nil {
		log.Errorf("Propose: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "生成场景失败，请稍后重试"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": scenario})
}
