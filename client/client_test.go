package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

func TestPostTask(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		status      int
		body        string
		wantAuth    string
		wantContent string
		wantOK      bool
		wantStatus  int
	}{
		{
			name:        "content present",
			status:      http.StatusOK,
			body:        `{"response":{"kwargs":{"content":"Hi there"}}}`,
			wantContent: "Hi there",
			wantOK:      true,
		},
		{
			name:     "bearer token sent",
			token:    "secret",
			status:   http.StatusOK,
			body:     `{"response":{"kwargs":{"content":"ok"}}}`,
			wantAuth: "Bearer secret",
			wantOK:   true, wantContent: "ok",
		},
		{
			name:   "missing kwargs",
			status: http.StatusOK,
			body:   `{"response":{}}`,
		},
		{
			name:   "empty content",
			status: http.StatusOK,
			body:   `{"response":{"kwargs":{"content":""}}}`,
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"detail":"missing token"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth, gotPath string
			var gotBody TaskRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				gotPath = r.URL.Path
				if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
					t.Errorf("decode request: %v", err)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := New(srv.URL+"/", WithLogger(zaptest.NewLogger(t).Sugar()))
			resp, err := c.PostTask(context.Background(), "/chat", "Hello", tt.token)

			if gotPath != "/chat" {
				t.Errorf("path = %q, want /chat", gotPath)
			}
			if gotBody.Task != "Hello" {
				t.Errorf("task = %q, want Hello", gotBody.Task)
			}
			if gotAuth != tt.wantAuth {
				t.Errorf("Authorization = %q, want %q", gotAuth, tt.wantAuth)
			}
			if tt.wantStatus != 0 {
				var se *StatusError
				if !errors.As(err, &se) {
					t.Fatalf("err = %v, want *StatusError", err)
				}
				if se.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.wantStatus)
				}
				return
			}
			if err != nil {
				t.Fatalf("PostTask: %v", err)
			}
			content, ok := resp.Content()
			if ok != tt.wantOK || content != tt.wantContent {
				t.Errorf("Content() = %q, %v; want %q, %v", content, ok, tt.wantContent, tt.wantOK)
			}
		})
	}
}

func TestPostTaskInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))
	defer srv.Close()

	_, err := New(srv.URL).PostTask(context.Background(), "/command", "ls", "")
	if err == nil {
		t.Fatal("PostTask succeeded on invalid JSON")
	}
}

func TestUpload(t *testing.T) {
	type upload struct {
		Field, Filename, Type string
		Data                  string
	}
	var got upload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != UploadPath {
			t.Errorf("path = %q, want %q", r.URL.Path, UploadPath)
		}
		f, hdr, err := r.FormFile(UploadField)
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		got = upload{Field: UploadField, Filename: hdr.Filename, Type: hdr.Header.Get("Content-Type"), Data: string(b)}
		io.WriteString(w, `{"filename":"report.pdf","size":8}`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Upload(context.Background(), "report.pdf", "application/pdf", []byte("%PDF-1.7"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	want := upload{Field: "file", Filename: "report.pdf", Type: "application/pdf", Data: "%PDF-1.7"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("upload mismatch (-want +got):\n%s", diff)
	}
	if resp.Filename != "report.pdf" || resp.Size != 8 {
		t.Errorf("UploadResponse = %+v", resp)
	}
}

func TestUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too large", http.StatusRequestEntityTooLarge)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Upload(context.Background(), "a.pdf", "application/pdf", []byte("x"))
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("err = %v, want 413 StatusError", err)
	}
	if se.Body != "too large" {
		t.Errorf("Body = %q, want %q", se.Body, "too large")
	}
}

func TestWithTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTimeout(20*time.Millisecond))
	if _, err := c.PostTask(context.Background(), "/chat", "x", ""); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestNewTaskResponseRoundTrip(t *testing.T) {
	b, err := json.Marshal(NewTaskResponse("hello"))
	if err != nil {
		t.Fatal(err)
	}
	var r TaskResponse
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatal(err)
	}
	if c, ok := r.Content(); !ok || c != "hello" {
		t.Errorf("Content() = %q, %v", c, ok)
	}
}
