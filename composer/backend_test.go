package composer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/tmc/slashchat/client"
	"github.com/tmc/slashchat/message"
)

// call is one request seen by the test backend.
type call struct {
	Path     string
	Auth     string
	Task     string
	FileName string
	FileType string
	FileData string
}

// testBackend is an httptest server speaking the backend protocol. Replies
// echo the task unless overridden per path.
type testBackend struct {
	mu     sync.Mutex
	calls  []call
	status map[string]int
	bodies map[string]string

	// during, if set, runs inside the handler before the reply is written.
	during func()
}

func newTestBackend(t *testing.T) (*testBackend, *client.Client) {
	t.Helper()
	b := &testBackend{status: map[string]int{}, bodies: map[string]string{}}
	ts := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(ts.Close)
	c := client.New(ts.URL, client.WithHTTPClient(ts.Client()), client.WithLogger(zaptest.NewLogger(t).Sugar()))
	return b, c
}

func (b *testBackend) respond(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[path] = status
	b.bodies[path] = body
}

func (b *testBackend) serve(w http.ResponseWriter, r *http.Request) {
	c := call{Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
	if r.URL.Path == client.UploadPath {
		f, hdr, err := r.FormFile(client.UploadField)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(f)
		f.Close()
		c.FileName = hdr.Filename
		c.FileType = hdr.Header.Get("Content-Type")
		c.FileData = string(data)
	} else {
		var req client.TaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		c.Task = req.Task
	}

	b.mu.Lock()
	b.calls = append(b.calls, c)
	status, body := b.status[r.URL.Path], b.bodies[r.URL.Path]
	during := b.during
	b.mu.Unlock()
	if during != nil {
		during()
	}

	if status == 0 {
		status = http.StatusOK
	}
	if body == "" && status == http.StatusOK {
		if c.FileName != "" {
			body = `{"filename":"` + c.FileName + `"}`
		} else {
			raw, _ := json.Marshal(client.NewTaskResponse("echo: " + c.Task))
			body = string(raw)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func (b *testBackend) setDuring(fn func()) {
	b.mu.Lock()
	b.during = fn
	b.mu.Unlock()
}

func (b *testBackend) Calls() []call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]call(nil), b.calls...)
}

// entries returns role and content of every message in l.
func entries(l *message.Log) [][2]string {
	var out [][2]string
	for _, m := range l.Messages() {
		out = append(out, [2]string{string(m.Role), m.Content})
	}
	return out
}
