package api

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/dgallion1/docqa/internal/abbrev"
	"github.com/dgallion1/docqa/internal/pipeline"
)

type abbrevPage struct {
	Title   string
	Active  string
	Model   string
	Warning string
	Items   []abbrevItem
}

type abbrevItem struct {
	Filename string         `json:"filename"`
	Output   string         `json:"output,omitempty"`
	Entries  []abbrev.Entry `json:"entries,omitempty"`
	Sorted   bool           `json:"sorted"`
	Error    string         `json:"error,omitempty"`
	Kind     pipeline.Kind  `json:"kind,omitempty"`
}

func (s *Server) newAbbrevPage() abbrevPage {
	return abbrevPage{
		Title:  "Abbreviation Index",
		Active: "abbreviations",
		Model:  s.orchestrator.Model(),
	}
}

func (s *Server) handleAbbreviationsPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "abbreviations", http.StatusOK, s.newAbbrevPage())
}

func (s *Server) handleAbbreviations(w http.ResponseWriter, r *http.Request) {
	page := s.newAbbrevPage()

	items, err := s.runBatch(w, r)
	if err != nil {
		page.Warning = warningText(err)
		s.render(w, "abbreviations", batchErrorStatus(err), page)
		return
	}
	page.Items = items
	s.render(w, "abbreviations", http.StatusOK, page)
}

func (s *Server) handleAPIAbbreviations(w http.ResponseWriter, r *http.Request) {
	items, err := s.runBatch(w, r)
	if err != nil {
		jsonError(w, warningText(err), pipeline.KindValidation, batchErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": items})
}

// runBatch reads the uploaded files and indexes each one. Files that could
// not be read become failed items; the rest of the batch still runs.
func (s *Server) runBatch(w http.ResponseWriter, r *http.Request) ([]abbrevItem, error) {
	limit := s.cfg.MaxUploadBytes * maxBatchFiles
	if err := parseUpload(w, r, limit); err != nil {
		return nil, err
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["files"]
	}
	if len(files) == 0 {
		// Reports the empty batch as a validation failure.
		_, err := s.orchestrator.AbbreviationIndexAll(r.Context(), nil)
		return nil, err
	}
	if len(files) > maxBatchFiles {
		return nil, fmt.Errorf("%w: at most %d files per batch", errTooMany, maxBatchFiles)
	}

	items := make([]abbrevItem, len(files))
	docs := make([]pipeline.Document, 0, len(files))
	positions := make([]int, 0, len(files))
	for i, fh := range files {
		doc, err := readDocument(fh, s.cfg.MaxUploadBytes)
		if err != nil {
			items[i] = abbrevItem{Filename: sanitizeFilename(fh.Filename), Error: err.Error(), Kind: pipeline.KindValidation}
			continue
		}
		docs = append(docs, doc)
		positions = append(positions, i)
	}
	if len(docs) == 0 {
		return items, nil
	}

	results, err := s.orchestrator.AbbreviationIndexAll(r.Context(), docs)
	if err != nil {
		return nil, err
	}
	for j, res := range results {
		items[positions[j]] = itemFrom(res)
	}
	return items, nil
}

func itemFrom(res pipeline.BatchResult) abbrevItem {
	item := abbrevItem{Filename: res.Filename}
	if res.Err != nil {
		item.Error = pipeline.UserMessage(res.Err)
		item.Kind = pipeline.KindOf(res.Err)
		return item
	}
	item.Output = res.Output
	item.Entries = res.Entries
	item.Sorted = res.Sorted
	return item
}

func warningText(err error) string {
	if pipeline.KindOf(err) == pipeline.KindValidation {
		return pipeline.UserMessage(err)
	}
	return err.Error()
}

func batchErrorStatus(err error) int {
	if pipeline.KindOf(err) == pipeline.KindValidation {
		return http.StatusBadRequest
	}
	return uploadStatus(err)
}
