// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fluentai-go/internal/middleware"
	"fluentai-go/internal/model"
	"fluentai-go/internal/service"
	"fluentai-go/pkg/log"
)

// SessionHandler 负责处理会话登记簿与对话协议相关的 API 请求。
type SessionHandler struct {
	sessionService  service.SessionService
	dialogueService service.DialogueService
	scenarioService service.ScenarioService
}

// NewSessionHandler 创建一个新的 SessionHandler 实例。
func NewSessionHandler(sessionService service.SessionService, dialogueService service.DialogueService, scenarioService service.ScenarioService) *SessionHandler {
	return &SessionHandler{
		sessionService:  sessionService,
		dialogueService: dialogueService,
		scenarioService: scenarioService,
	}
}

// List 按最近活跃顺序返回当前用户的全部会话。
func (h *SessionHandler) List(c *gin.Context) {
	sessions := h.sessionService.List(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": sessions})
}

// Grouped 按日历日分组返回会话，最近两天用 Today/Yesterday 标签。
func (h *SessionHandler) Grouped(c *gin.Context) {
	groups := h.sessionService.GroupByDay(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": groups})
}

// Get 返回单个会话的完整快照。
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessionService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": session})
}

// OpenRequest 定义了打开会话 API 的请求体结构。
// 二选一：scenarioId 指向预置场景；scenario 携带完整的定制场景。
type OpenRequest struct {
	ScenarioID string          `json:"scenarioId"`
	Scenario   *model.Scenario `json:"scenario"`
	Mode       model.ChatMode  `json:"mode" binding:"required"`
}

// Open 打开（或恢复）一个会话并返回带开场消息的快照。
func (h *SessionHandler) Open(c *gin.Context) {
	var req OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Mode.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：mode 必须是 free 或 guided"})
		return
	}

	var scenario model.Scenario
	switch {
	case req.Scenario != nil:
		scenario = *req.Scenario
	case req.ScenarioID != "":
		found := false
		scenario, found = h.scenarioService.Find(req.ScenarioID)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "场景不存在"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 scenarioId 或 scenario"})
		return
	}

	session, err := h.dialogueService.Open(c.Request.Context(), middleware.UserID(c), scenario, req.Mode)
	if err != nil {
		log.Errorf("Open: failed for scenario %s: %v", scenario.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "打开会话失败，请稍后重试"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": session})
}

// TurnRequest 定义了发送一轮对话 API 的请求体结构。
type TurnRequest struct {
	Text string `json:"text" binding:"required"`
}

// Turn 追加一条用户消息并返回带 AI 回复的会话快照。
// 辅导调用失败时快照里是固定的回退 AI 消息，状态码仍是 200。
func (h *SessionHandler) Turn(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：text 不能为空"})
		return
	}

	session, err := h.dialogueService.SendTurn(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Text)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
			return
		}
		log.Errorf("Turn: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "发送消息失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": session})
}

// Task 返回 guided 会话的当前任务。free 会话或无任务时 task 为空串。
func (h *SessionHandler) Task(c *gin.Context) {
	task, err := h.dialogueService.CurrentTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"task": task}})
}
