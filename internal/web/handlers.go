package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/mobgen/internal/core"
	"github.com/JonMunkholm/mobgen/internal/logging"
	"github.com/go-chi/chi/v5"
)

// GeneratorResponse describes a registered generator and where it reads from.
type GeneratorResponse struct {
	core.GeneratorInfo
	URL string `json:"url"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

func (s *Server) handleListGenerators(w http.ResponseWriter, r *http.Request) {
	infos := s.service.ListGenerators()
	resp := make([]GeneratorResponse, len(infos))
	for i, info := range infos {
		url, _ := s.service.SheetURL(info.Key)
		resp[i] = GeneratorResponse{GeneratorInfo: info, URL: url}
	}
	writeJSON(w, resp)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.service.Plan(r.Context(), chi.URLParam(r, "generator"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, plan)
}

// handleEntry returns the files one row would produce, each preceded by a
// "# --- <path>" line.
func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "generator")
	id := chi.URLParam(r, "id")

	plan, err := s.service.Plan(r.Context(), key)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	entry, ok := plan.Entry(id)
	if !ok {
		logging.FromContext(r.Context()).Info("entry not found", "generator", key, "id", id)
		respondErrorJSON(w, entryNotFound(id), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for i, f := range entry.Files {
		if i > 0 {
			fmt.Fprint(w, "\n")
		}
		fmt.Fprintf(w, "# --- %s\n%s", f.Path, f.Content)
	}
}

func entryNotFound(id string) core.UserMessage {
	return core.UserMessage{
		Message: fmt.Sprintf("No row with id %q", id),
		Action:  "Check the id in the sheet or the plan",
		Code:    "GEN002",
	}
}
