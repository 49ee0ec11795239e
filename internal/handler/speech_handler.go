// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fluentai-go/pkg/log"
	"fluentai-go/pkg/speech"
)

// SpeechHandler 负责处理语音相关的 API 请求。
type SpeechHandler struct {
	speechClient speech.Client
}

// NewSpeechHandler 创建一个新的 SpeechHandler 实例。
func NewSpeechHandler(speechClient speech.Client) *SpeechHandler {
	return &SpeechHandler{speechClient: speechClient}
}

// Transcribe 接收 multipart 上传的一段录音，返回识别出的英文文本。
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	if !h.speechClient.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "语音服务未配置"})
		return
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 audio 文件字段"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("Transcribe: failed to open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取录音失败"})
		return
	}
	defer file.Close()

	text, err := h.speechClient.Transcribe(c.Request.Context(), file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Errorf("Transcribe: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"text": text}})
}
