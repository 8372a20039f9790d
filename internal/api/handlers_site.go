package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgallion1/docsite/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handlePages lists the generated pages of a job in navigation order.
func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id": job.ID,
		"pages":  job.Pages(),
	})
}

// handleSite serves the generated files of a job. The bare site url
// redirects to the root page.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	job, ok := s.completedJob(w, r)
	if !ok {
		return
	}
	prefix := "/site/" + job.ID
	if rest := strings.TrimPrefix(r.URL.Path, prefix); rest == "" || rest == "/" {
		pages := job.Pages()
		if len(pages) == 0 {
			jsonError(w, "site has no pages", http.StatusNotFound)
			return
		}
		http.Redirect(w, r, prefix+"/"+pages[0].Filename, http.StatusFound)
		return
	}
	http.StripPrefix(prefix, http.FileServer(http.Dir(job.OutputDir))).ServeHTTP(w, r)
}

// completedJob looks up the job named in the url and writes an error
// response unless it finished successfully.
func (s *Server) completedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Job, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	switch status := job.Snapshot().Status; status {
	case pipeline.StatusCompleted:
		return job, true
	case pipeline.StatusFailed:
		jsonError(w, "generation failed", http.StatusUnprocessableEntity)
	default:
		jsonError(w, "site not ready: "+string(status), http.StatusConflict)
	}
	return nil, false
}
