package util

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestGetBytes(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	client := NewClient(0)
	b, err := GetBytes(context.Background(), client, srv.URL+"/ok")
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if string(b) != "payload" {
		t.Fatalf("body = %q", b)
	}
	if gotUA != UserAgent {
		t.Fatalf("User-Agent = %q", gotUA)
	}

	_, err = GetBytes(context.Background(), client, srv.URL+"/missing")
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}

func TestGetBytes_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GetBytes(ctx, nil, srv.URL); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "logo.png")
	if FileExists(p) {
		t.Fatalf("file should not exist yet")
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(p) {
		t.Fatalf("file should exist")
	}
	if FileExists(dir) {
		t.Fatalf("directory is not a file")
	}
}
