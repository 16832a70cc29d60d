// Package vision is the HTTP client for the YOLO crowd-detection service.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ErrUpstreamTimeout marks a detection call that outlived its deadline. Video
// analysis legitimately runs for minutes; the timeout is generous and a hit
// usually means the service is stuck.
var ErrUpstreamTimeout = errors.New("vision: upstream timeout")

const defaultTimeoutMinutes = 5

// FrameResult is the detection outcome for a single image.
type FrameResult struct {
	Count int    `json:"count"`
	Level string `json:"level"`
}

// VideoTask is the handle returned when a video is accepted for processing.
type VideoTask struct {
	TaskID string `json:"task_id"`
}

// VideoStatus is the processing state of a previously submitted video.
type VideoStatus struct {
	Status   string          `json:"status"`
	MaxCount int             `json:"max_count"`
	MaxLevel string          `json:"max_level"`
	Results  json.RawMessage `json:"results,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Client talks to the detection service. Zero value is not usable; construct
// via NewClient or NewClientFromEnv.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// NewClientFromEnv reads VISION_API_URL and VISION_TIMEOUT_MINUTES.
func NewClientFromEnv() (*Client, error) {
	base := os.Getenv("VISION_API_URL")
	if base == "" {
		return nil, errors.New("vision: VISION_API_URL is not set")
	}
	minutes := defaultTimeoutMinutes
	if raw := os.Getenv("VISION_TIMEOUT_MINUTES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			minutes = n
		}
	}
	return NewClient(base, time.Duration(minutes)*time.Minute), nil
}

// DetectFrame submits one base64-encoded image and returns the passenger
// count and crowd level.
func (c *Client) DetectFrame(ctx context.Context, imageBase64 string) (*FrameResult, error) {
	body, err := json.Marshal(map[string]string{"image": imageBase64})
	if err != nil {
		return nil, fmt.Errorf("vision: encode frame request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out FrameResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DetectVideo streams a video to the service and returns the task handle the
// service assigns. The caller polls VideoStatus with it.
func (c *Client) DetectVideo(ctx context.Context, busID, filename string, video io.Reader) (*VideoTask, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("video", filename)
	if err != nil {
		return nil, fmt.Errorf("vision: build upload: %w", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, fmt.Errorf("vision: buffer video: %w", err)
	}
	if err := mw.WriteField("busId", busID); err != nil {
		return nil, fmt.Errorf("vision: build upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("vision: build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect-video", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out VideoTask
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VideoStatus fetches the current state of a video task.
func (c *Client) VideoStatus(ctx context.Context, taskID string) (*VideoStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/video-status/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	var out VideoStatus
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return fmt.Errorf("vision: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("vision: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, payload)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("vision: decode response: %w", err)
	}
	return nil
}

func isClientTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
