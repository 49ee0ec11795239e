// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fluentai-go/internal/middleware"
	"fluentai-go/internal/service"
	"fluentai-go/pkg/log"
	"fluentai-go/pkg/token"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// heartbeatInterval 是在线心跳周期，连接每存活一个周期计一次活跃时长。
const heartbeatInterval = 10 * time.Second

// ticketTTL 是一次性连接票据的有效期。
const ticketTTL = 30 * time.Second

type wsTicket struct {
	userID    string
	expiresAt time.Time
}

// ChatHandler 负责处理 WebSocket 聊天连接。
// 浏览器的 WebSocket API 无法携带请求头，所以 token 不能走
// Authorization，改为先领取一次性票据再放进连接路径。
type ChatHandler struct {
	dialogueService service.DialogueService
	activityService service.ActivityService
	tickets         sync.Map // ticket string -> wsTicket
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(dialogueService service.DialogueService, activityService service.ActivityService) *ChatHandler {
	return &ChatHandler{dialogueService: dialogueService, activityService: activityService}
}

// IssueTicket 为当前用户签发一张一次性 WebSocket 连接票据。
func (h *ChatHandler) IssueTicket(c *gin.Context) {
	ticket := token.GenerateRandomString(32)
	h.tickets.Store(ticket, wsTicket{
		userID:    middleware.UserID(c),
		expiresAt: time.Now().Add(ticketTTL),
	})
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "success", "data": gin.H{"ticket": ticket}})
}

// redeemTicket 核销票据并返回其绑定的用户 ID。票据只能用一次。
func (h *ChatHandler) redeemTicket(ticket string) (string, bool) {
	v, ok := h.tickets.LoadAndDelete(ticket)
	if !ok {
		return "", false
	}
	t := v.(wsTicket)
	if time.Now().After(t.expiresAt) {
		return "", false
	}
	return t.userID, true
}

// wsInbound 是客户端发来的消息。type 为 "turn" 时携带一轮用户输入。
type wsInbound struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

// wsOutbound 是服务端推送的消息。type 为 "session" 时 data 是
// 追加了 AI 回复的会话快照，"error" 时 message 携带原因。
type wsOutbound struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Handle 处理一个传入的 WebSocket 连接。
// 连接存活期间每 10 秒为用户计一次在线时长，关闭即停止。
func (h *ChatHandler) Handle(c *gin.Context) {
	userID, ok := h.redeemTicket(c.Param("ticket"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "无效或过期的票据", "data": nil})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，用户: %s", userID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.heartbeat(ctx, userID)

	var writeMu sync.Mutex
	send := func(msg wsOutbound) {
		writeMu.Lock()
		defer writeMu.Unlock()
		b, _ := json.Marshal(msg)
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Warnf("向 WebSocket 写消息失败: %v", err)
		}
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Infof("WebSocket 连接关闭，用户: %s: %v", userID, err)
			return
		}

		var in wsInbound
		if err := json.Unmarshal(message, &in); err != nil {
			send(wsOutbound{Type: "error", Message: "无法解析消息"})
			continue
		}

		switch in.Type {
		case "turn":
			if in.SessionID == "" || in.Text == "" {
				send(wsOutbound{Type: "error", Message: "turn 消息缺少 sessionId 或 text"})
				continue
			}
			session, err := h.dialogueService.SendTurn(ctx, userID, in.SessionID, in.Text)
			if err != nil {
				send(wsOutbound{Type: "error", Message: "会话不存在"})
				continue
			}
			send(wsOutbound{Type: "session", Data: session})
		case "composing":
			// 对端正在输入的提示，当前无广播对象，确认即可
			send(wsOutbound{Type: "composing", Data: gin.H{"received": true}})
		case "ping":
			send(wsOutbound{Type: "pong"})
		default:
			send(wsOutbound{Type: "error", Message: "未知的消息类型"})
		}
	}
}

// heartbeat 按固定周期累计在线时长，直到连接关闭。
func (h *ChatHandler) heartbeat(ctx context.Context, userID string) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.activityService.Record(ctx, userID, int64(heartbeatInterval.Seconds())); err != nil {
				log.Warnf("心跳记录活跃度失败，用户 %s: %v", userID, err)
			}
		}
	}
}
