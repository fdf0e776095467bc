package api

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/dgallion1/docqa/internal/pipeline"
)

// Bounds of the document budget control on the question page.
const (
	MinQABudget  = 2000
	MaxQABudget  = 20000
	QABudgetStep = 1000
)

type qaPage struct {
	Title  string
	Active string
	Model  string

	Question   string
	Budget     int
	MinBudget  int
	MaxBudget  int
	BudgetStep int

	Warning string
	Error   string
	Result  *pipeline.QAResult
	Answer  template.HTML
}

func (s *Server) newQAPage() qaPage {
	return qaPage{
		Title:      "Document Q&A",
		Active:     "qa",
		Model:      s.orchestrator.Model(),
		Budget:     clampBudget(s.orchestrator.Options().QABudget),
		MinBudget:  MinQABudget,
		MaxBudget:  MaxQABudget,
		BudgetStep: QABudgetStep,
	}
}

func (s *Server) handleQAPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "qa", http.StatusOK, s.newQAPage())
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	page := s.newQAPage()

	req, err := s.readQARequest(w, r)
	page.Question = req.Question
	if req.Budget > 0 {
		page.Budget = req.Budget
	}
	if err != nil {
		page.Error = err.Error()
		s.render(w, "qa", uploadStatus(err), page)
		return
	}

	res, err := s.orchestrator.Answer(r.Context(), req)
	if err != nil {
		kind := pipeline.KindOf(err)
		if kind == pipeline.KindValidation {
			page.Warning = pipeline.UserMessage(err)
		} else {
			page.Error = pipeline.UserMessage(err)
		}
		s.render(w, "qa", statusFor(kind), page)
		return
	}

	page.Result = res
	page.Answer = renderAnswer(res.Answer)
	s.render(w, "qa", http.StatusOK, page)
}

func (s *Server) handleAPIAsk(w http.ResponseWriter, r *http.Request) {
	req, err := s.readQARequest(w, r)
	if err != nil {
		jsonError(w, err.Error(), pipeline.KindValidation, uploadStatus(err))
		return
	}

	res, err := s.orchestrator.Answer(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// readQARequest reads question, budget and the optional file from a
// multipart form. The returned request carries whatever was read even when
// err is set.
func (s *Server) readQARequest(w http.ResponseWriter, r *http.Request) (pipeline.QARequest, error) {
	var req pipeline.QARequest
	if err := parseUpload(w, r, s.cfg.MaxUploadBytes); err != nil {
		return req, err
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req.Question = r.FormValue("question")
	if v := r.FormValue("budget"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			req.Budget = clampBudget(n)
		}
	}

	doc, err := formDocument(r, "file", s.cfg.MaxUploadBytes)
	if err != nil {
		return req, err
	}
	req.Document = doc
	return req, nil
}

func clampBudget(n int) int {
	return min(max(n, MinQABudget), MaxQABudget)
}
