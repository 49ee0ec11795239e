// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fluentai-go/internal/middleware"
	"fluentai-go/internal/service"
	"fluentai-go/pkg/log"
)

// ActivityHandler 负责处理学习活跃度相关的 API 请求。
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler 创建一个新的 ActivityHandler 实例。
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// RecordRequest 定义了上报活跃时长 API 的请求体结构。
type RecordRequest struct {
	Seconds int64 `json:"seconds" binding:"required"`
}

// Record 把一段学习时长累加到今天的活跃度桶中。
func (h *ActivityHandler) Record(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Seconds <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：seconds 必须为正数"})
		return
	}

	if err := h.activityService.Record(c.Request.Context(), middleware.UserID(c), req.Seconds); err != nil {
		log.Errorf("Record activity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "记录活跃度失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}

// Week 返回最近 7 天（含今天）的活跃度，单位为分钟，缺失日期补零。
// 可用 days 查询参数调整窗口长度。
func (h *ActivityHandler) Week(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}
	stats := h.activityService.LastNDays(c.Request.Context(), middleware.UserID(c), days)
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": stats})
}
