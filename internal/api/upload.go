package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dgallion1/docqa/internal/pipeline"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// maxBatchFiles bounds the number of files in one abbreviation batch.
const maxBatchFiles = 20

var (
	errTooLarge = errors.New("upload too large")
	errTooMany  = errors.New("too many files")
)

// parseUpload parses a multipart form whose total size may not exceed
// limit bytes plus form overhead.
func parseUpload(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024*1024)
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		// Plain form posts carry no files.
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit is %d bytes", errTooLarge, limit)
		}
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// readDocument reads one uploaded file into memory.
func readDocument(fh *multipart.FileHeader, maxBytes int64) (pipeline.Document, error) {
	filename := sanitizeFilename(fh.Filename)
	if fh.Size > maxBytes {
		return pipeline.Document{}, fmt.Errorf("%w: %s exceeds %d bytes", errTooLarge, filename, maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return pipeline.Document{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if int64(len(data)) > maxBytes {
		return pipeline.Document{}, fmt.Errorf("%w: %s exceeds %d bytes", errTooLarge, filename, maxBytes)
	}
	return pipeline.Document{Filename: filename, Data: data}, nil
}

// formDocument returns the single file posted as field, or nil when the
// field is absent.
func formDocument(r *http.Request, field string, maxBytes int64) (*pipeline.Document, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	doc, err := readDocument(files[0], maxBytes)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func sanitizeFilename(name string) string {
	// Keep only the base name; clients may send Windows paths.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
