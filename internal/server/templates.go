package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/observability"
	"github.com/cardpress/cardpress/pkg/store"
	"github.com/cardpress/cardpress/pkg/template"
)

// templateRequest is the body of template create/update calls.
type templateRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Config   json.RawMessage `json:"config"`
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	s.saveTemplate(w, r, "")
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	s.saveTemplate(w, r, chi.URLParam(r, "templateID"))
}

// saveTemplate persists a template. The config bytes from the request
// are stored as-is; only a parsed copy is validated.
func (s *Server) saveTemplate(w http.ResponseWriter, r *http.Request, id string) {
	orgID := chi.URLParam(r, "orgID")

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding template request"))
		return
	}
	if err := errors.ValidateName(req.Name); err != nil {
		writeError(w, err)
		return
	}

	cfg, err := template.ParseConfig(req.Config)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := store.Record{
		ID:       id,
		OrgID:    orgID,
		Name:     req.Name,
		Category: req.Category,
		Config:   req.Config,
	}
	saved, err := s.manager.SaveTemplate(r.Context(), rec, &cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.TemplateStore().OnTemplateSaved(r.Context(), orgID, saved.ID)

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	writeJSON(w, status, saved)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	recs, err := s.manager.Store().List(r.Context(), orgID)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.manager.Store().Get(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "templateID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	id := chi.URLParam(r, "templateID")
	if err := s.manager.DeleteTemplate(r.Context(), orgID, id); err != nil {
		writeError(w, err)
		return
	}
	observability.TemplateStore().OnTemplateDeleted(r.Context(), orgID, id)
	w.WriteHeader(http.StatusNoContent)
}

// handleUpload accepts a multipart form with a "file" field and returns
// the public URL of the stored asset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "uploads are not configured"))
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parsing upload form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "missing file field"))
		return
	}
	defer file.Close()

	url, err := s.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		observability.Upload().OnUploadError(r.Context(), header.Filename, err)
		writeError(w, errors.Wrap(errors.ErrCodeUploadFailed, err, "storing %s", header.Filename))
		return
	}
	observability.Upload().OnUpload(r.Context(), header.Filename, int(header.Size))
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
