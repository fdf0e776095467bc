package api

import (
	"net/http"

	"github.com/dgallion1/docqa/internal/pipeline"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "llm stats unavailable", pipeline.KindUnknown, http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"backend": s.cfg.LLMBackend,
		"model":   s.orchestrator.Model(),
		"stats":   s.stats.Snapshot(),
	})
}
