package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/zhangyu1818/typefree/internal/config"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF fake wav payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAltClient_TranscribeFile(t *testing.T) {
	var gotModel, gotLanguage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("multipart parse: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "hello from the server", "language": "en"}`))
	}))
	defer server.Close()

	cfg := config.Default().STT
	cfg.AltServerURL = server.URL
	cfg.AltModel = "parakeet-tdt-0.6b"
	cfg.Language = "en"

	c := NewAltClient(cfg, nil)
	res, err := c.TranscribeFile(context.Background(), writeTestAudio(t))
	if err != nil {
		t.Fatalf("TranscribeFile() error = %v", err)
	}

	if res.Text != "hello from the server" {
		t.Errorf("text = %q", res.Text)
	}
	if res.Language != "en" {
		t.Errorf("language = %q", res.Language)
	}
	if gotModel != "parakeet-tdt-0.6b" {
		t.Errorf("model field = %q", gotModel)
	}
	if gotLanguage != "en" {
		t.Errorf("language field = %q", gotLanguage)
	}
}

func TestAltClient_AutoLanguageOmitted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		if lang := r.FormValue("language"); lang != "" {
			t.Errorf("language field = %q, want omitted for auto", lang)
		}
		w.Write([]byte(`{"text": "ok"}`))
	}))
	defer server.Close()

	cfg := config.Default().STT
	cfg.AltServerURL = server.URL
	cfg.Language = "auto"

	c := NewAltClient(cfg, nil)
	res, err := c.TranscribeFile(context.Background(), writeTestAudio(t))
	if err != nil {
		t.Fatalf("TranscribeFile() error = %v", err)
	}
	if res.Language != "auto" {
		t.Errorf("language = %q, want fallback to configured", res.Language)
	}
}

func TestAltClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.Default().STT
	cfg.AltServerURL = server.URL

	c := NewAltClient(cfg, nil)
	if _, err := c.TranscribeFile(context.Background(), writeTestAudio(t)); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestAltClient_Warm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	cfg := config.Default().STT
	cfg.AltServerURL = server.URL

	c := NewAltClient(cfg, nil)
	if err := c.Warm(context.Background()); err != nil {
		t.Errorf("Warm() error = %v", err)
	}

	server.Close()
	if err := c.Warm(context.Background()); err == nil {
		t.Error("Warm() against a dead server must fail")
	}
}
