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

// VocabHandler 负责处理词汇账本相关的 API 请求。
type VocabHandler struct {
	vocabService service.VocabularyService
}

// NewVocabHandler 创建一个新的 VocabHandler 实例。
func NewVocabHandler(vocabService service.VocabularyService) *VocabHandler {
	return &VocabHandler{vocabService: vocabService}
}

// List 按最近添加顺序返回当前用户的词汇账本。
func (h *VocabHandler) List(c *gin.Context) {
	words := h.vocabService.List(c.Request.Context(), middleware.UserID(c))
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": words})
}

// SaveWordRequest 定义了收藏词汇 API 的请求体结构。
// context 是词汇出现时所在的句子，补全时作为释义消歧的依据。
type SaveWordRequest struct {
	Word       string `json:"word" binding:"required"`
	Definition string `json:"definition"`
	Context    string `json:"context"`
}

// Save 收藏一个词。词条立刻以基础形态入账并返回，
// 词典级详情由后台补全任务异步填充。重复收藏是幂等空操作。
func (h *VocabHandler) Save(c *gin.Context) {
	var req SaveWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：word 不能为空"})
		return
	}

	word := model.VocabularyWord{
		Word:       req.Word,
		Definition: req.Definition,
		Context:    req.Context,
	}
	saved, err := h.vocabService.Save(c.Request.Context(), middleware.UserID(c), word)
	if err != nil && !errors.Is(err, model.ErrWordExists) {
		log.Errorf("Save word: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存词汇失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": saved})
}

// SynonymRequest 定义了由近义词建新词条 API 的请求体结构。
type SynonymRequest struct {
	Synonym string `json:"synonym" binding:"required"`
}

// CreateSynonym 把已收藏词条的一个近义词收藏为独立的新词条。
func (h *VocabHandler) CreateSynonym(c *gin.Context) {
	var req SynonymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载：synonym 不能为空"})
		return
	}

	saved, err := h.vocabService.CreateFromSynonym(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Synonym)
	if err != nil {
		log.Errorf("CreateSynonym: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存词汇失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": saved})
}

// Delete 从账本中删除一个词条。
func (h *VocabHandler) Delete(c *gin.Context) {
	err := h.vocabService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, model.ErrWordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "词条不存在"})
			return
		}
		log.Errorf("Delete word: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "删除词汇失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": nil})
}
