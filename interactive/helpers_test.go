package interactive

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/tmc/slashchat/client"
	"github.com/tmc/slashchat/composer"
	"github.com/tmc/slashchat/message"
	"github.com/tmc/slashchat/mode"
)

// echoBackend answers every task endpoint with "echo: <task>" and records
// the paths it saw.
type echoBackend struct {
	mu    sync.Mutex
	paths []string
}

func (b *echoBackend) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.paths...)
}

func (b *echoBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.paths = append(b.paths, r.URL.Path)
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path == client.UploadPath {
		json.NewEncoder(w).Encode(client.UploadResponse{Filename: "upload.pdf"})
		return
	}
	var req client.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(client.NewTaskResponse("echo: " + req.Task))
}

// newTestConfig returns a validated session config over a composer talking
// to an echo backend.
func newTestConfig(t *testing.T) (Config, *echoBackend) {
	t.Helper()
	backend := &echoBackend{}
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	logger := zaptest.NewLogger(t).Sugar()
	log := &message.Log{}
	c := client.New(ts.URL, client.WithHTTPClient(ts.Client()), client.WithLogger(logger))
	comp := composer.New(mode.Default(), c, composer.Ports{Log: log}, composer.WithLogger(logger))

	cfg := Config{
		Composer:      comp,
		Messages:      log,
		MarkdownStyle: "notty",
		FileDir:       t.TempDir(),
		Stdin:         &bytes.Buffer{},
		Stdout:        &bytes.Buffer{},
		Stderr:        &bytes.Buffer{},
		Logger:        logger,
	}
	if err := cfg.validate(); err != nil {
		t.Fatal(err)
	}
	return cfg, backend
}

func contents(log *message.Log) []string {
	var out []string
	for _, m := range log.Messages() {
		out = append(out, string(m.Role)+": "+m.Content)
	}
	return out
}
