package composer

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tmc/slashchat/client"
)

// PDFType is the only media type the stage accepts.
const PDFType = "application/pdf"

// StagedFile is a file held in memory pending upload or discard.
type StagedFile struct {
	Name     string
	MIMEType string
	Bytes    []byte
}

// Stage holds at most one file.
type Stage struct {
	file *StagedFile
}

// Select stages f if its declared media type is exactly PDFType. Any other
// type empties the stage and returns ErrInvalidFileType.
func (s *Stage) Select(f StagedFile) error {
	if f.MIMEType != PDFType {
		s.file = nil
		return fmt.Errorf("%w: %q is %s", ErrInvalidFileType, f.Name, describeType(f.MIMEType))
	}
	s.file = &f
	return nil
}

// Clear empties the stage.
func (s *Stage) Clear() { s.file = nil }

// File returns the staged file, or nil.
func (s *Stage) File() *StagedFile { return s.file }

// Uploader sends a file to the backend. *client.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, name, mimeType string, data []byte) (*client.UploadResponse, error)
}

var _ Uploader = (*client.Client)(nil)

// Upload sends f through u. Failures are wrapped in ErrUploadFailed.
func Upload(ctx context.Context, u Uploader, f *StagedFile) error {
	if f == nil {
		return ErrEmptyInput
	}
	if _, err := u.Upload(ctx, f.Name, f.MIMEType, f.Bytes); err != nil {
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return nil
}

// FileFromPath reads path and declares its media type from the extension,
// falling back to content sniffing.
func FileFromPath(path string) (StagedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StagedFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return StagedFile{
		Name:     filepath.Base(path),
		MIMEType: DetectType(path, data),
		Bytes:    data,
	}, nil
}

// DetectType returns the media type for a file name and content.
func DetectType(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		mt, _, err := mime.ParseMediaType(t)
		if err == nil {
			return mt
		}
		return t
	}
	if len(data) == 0 {
		return ""
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data[:min(512, len(data))]))
	return mt
}

func describeType(t string) string {
	if t == "" {
		return "of unknown type"
	}
	return t
}
