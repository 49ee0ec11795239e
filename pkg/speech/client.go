// Package speech 提供了语音合成与语音识别服务的客户端。
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"fluentai-go/internal/config"
)

// Client 是语音协作方的访问接口。
type Client interface {
	// Speak 为给定文本合成语音，返回音频地址。
	// 语音是对话的旁路副作用，失败由调用方记录后忽略。
	Speak(ctx context.Context, text string) (string, error)
	// Transcribe 将音频转写为文本。失败返回可直接展示给用户的描述性错误。
	Transcribe(ctx context.Context, audio io.Reader, mimeType string) (string, error)
	// Enabled 报告语音服务是否已配置。
	Enabled() bool
}

type httpClient struct {
	cfg    config.SpeechConfig
	client *http.Client
}

// NewClient 创建一个语音客户端。base_url 为空时所有调用都是空操作。
func NewClient(cfg config.SpeechConfig) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (c *httpClient) Enabled() bool {
	return c.cfg.BaseURL != ""
}

type speakRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type speakResponse struct {
	AudioURL string `json:"audioUrl"`
}

func (c *httpClient) Speak(ctx context.Context, text string) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	reqBytes, err := json.Marshal(speakRequest{Text: text, Voice: c.cfg.Voice})
	if err != nil {
		return "", fmt.Errorf("failed to marshal speak request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/synthesize", bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create speak request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call speech api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("speech api returned non-200 status: %s, body: %s", resp.Status, string(bodyBytes))
	}

	var sr speakResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("failed to decode speak response: %w", err)
	}
	return sr.AudioURL, nil
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (c *httpClient) Transcribe(ctx context.Context, audio io.Reader, mimeType string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("speech recognition is not configured on this server")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/transcribe", audio)
	if err != nil {
		return "", fmt.Errorf("failed to create transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech service is unreachable, check your network connection")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech could not be recognized, please try again")
	}

	var tr transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode transcribe response: %w", err)
	}
	if tr.Text == "" {
		return "", fmt.Errorf("no speech detected in the recording")
	}
	return tr.Text, nil
}
