package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDetectFrame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["image"] == "" {
			t.Errorf("missing image payload: %v", err)
		}
		_ = json.NewEncoder(w).Encode(FrameResult{Count: 32, Level: "High"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	res, err := c.DetectFrame(context.Background(), "aGVsbG8=")
	if err != nil {
		t.Fatalf("DetectFrame: %v", err)
	}
	if res.Count != 32 || res.Level != "High" {
		t.Fatalf("result = %+v", res)
	}
}

func TestDetectVideoSubmitsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/detect-video" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("busId") != "bus-1" {
			t.Errorf("busId = %q", r.FormValue("busId"))
		}
		if _, _, err := r.FormFile("video"); err != nil {
			t.Errorf("video part: %v", err)
		}
		_ = json.NewEncoder(w).Encode(VideoTask{TaskID: "task-9"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	task, err := c.DetectVideo(context.Background(), "bus-1", "clip.mp4", strings.NewReader("not really a video"))
	if err != nil {
		t.Fatalf("DetectVideo: %v", err)
	}
	if task.TaskID != "task-9" {
		t.Fatalf("task = %+v", task)
	}
}

func TestVideoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/video-status/task-9" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(VideoStatus{Status: "completed", MaxCount: 41, MaxLevel: "Critical"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	status, err := c.VideoStatus(context.Background(), "task-9")
	if err != nil {
		t.Fatalf("VideoStatus: %v", err)
	}
	if status.Status != "completed" || status.MaxCount != 41 {
		t.Fatalf("status = %+v", status)
	}
}

func TestTimeoutMapsToUpstreamTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.DetectFrame(context.Background(), "aGVsbG8=")
	if !errors.Is(err, ErrUpstreamTimeout) {
		t.Fatalf("err = %v, want ErrUpstreamTimeout", err)
	}
}

func TestNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.DetectFrame(context.Background(), "aGVsbG8="); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
