package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/domain"
	"linkbio/internal/model"
)

// MaxMessageLength is the Bot API limit for one text message.
const MaxMessageLength = 4096

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

// APIError is a failed delivery. Transient errors are worth retrying.
type APIError struct {
	StatusCode  int
	Description string
	RetryAfter  time.Duration
	Transient   bool
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram: status %d", e.StatusCode)
	}
	return fmt.Sprintf("telegram: status %d: %s", e.StatusCode, e.Description)
}

// IsTransient reports whether err is a network failure or a retryable API
// error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient
	}
	return !errors.Is(err, domain.ErrNotConfigured)
}

type Client struct {
	http    *http.Client
	baseURL string
	token   string
	chatID  string
	log     *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.TelegramTimeout},
		baseURL: cfg.TelegramAPIURL,
		token:   cfg.TelegramBotToken,
		chatID:  cfg.TelegramChatID,
		log:     logger,
	}
}

func (c *Client) Configured() bool {
	return c.token != "" && c.chatID != ""
}

func (c *Client) Send(ctx context.Context, msg model.Message) error {
	if !c.Configured() {
		return domain.ErrNotConfigured
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  fitText(msg),
		ParseMode:             msg.ParseMode,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("telegram marshal: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// the token is part of the URL; keep it out of logs
		return fmt.Errorf("telegram send: %w", redact(err, c.token))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	if err != nil {
		return fmt.Errorf("telegram read: %w", err)
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Description: "malformed response",
			Transient:   resp.StatusCode >= http.StatusInternalServerError,
		}
	}
	if out.OK && resp.StatusCode == http.StatusOK {
		c.log.Debug("telegram message sent", zap.Int("length", len(msg.Text)))
		return nil
	}

	code := out.ErrorCode
	if code == 0 {
		code = resp.StatusCode
	}
	apiErr := &APIError{
		StatusCode:  code,
		Description: out.Description,
		Transient:   code == http.StatusTooManyRequests || code >= http.StatusInternalServerError,
	}
	if out.Parameters != nil && out.Parameters.RetryAfter > 0 {
		apiErr.RetryAfter = time.Duration(out.Parameters.RetryAfter) * time.Second
	}
	return apiErr
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// TruncateLines is Truncate for formatted messages: it drops whole trailing
// lines so no tag or entity is split. Every line must be self-contained.
func TruncateLines(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)[:limit-1]
	for i := len(runes) - 1; i > 0; i-- {
		if runes[i] == '\n' {
			return string(runes[:i+1]) + "…"
		}
	}
	return Truncate(s, limit)
}

func fitText(msg model.Message) string {
	if msg.ParseMode == "" {
		return Truncate(msg.Text, MaxMessageLength)
	}
	return TruncateLines(msg.Text, MaxMessageLength)
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	msg := bytes.ReplaceAll([]byte(err.Error()), []byte(token), []byte("<redacted>"))
	return errors.New(string(msg))
}
