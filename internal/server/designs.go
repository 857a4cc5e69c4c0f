package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formdesigner/pkg/binding"
	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
	"github.com/goliatone/go-formdesigner/pkg/render"
)

type valuesBody struct {
	Values model.Values `json:"values"`
}

type validationBody struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors"`
	Values model.Values        `json:"values,omitempty"`
}

type lintBody struct {
	Issues []orchestrator.Issue `json:"issues"`
}

type modelSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title,omitempty"`
	Properties []string `json:"properties"`
}

func (s *Server) store(w http.ResponseWriter) (library.Store, bool) {
	store := s.orch.Store()
	if store == nil {
		s.writeFailure(w, orchestrator.ErrNoStore)
		return nil, false
	}
	return store, true
}

func (s *Server) handlePalette(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.palette.Groups())
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	out := []modelSummary{}
	if s.models != nil {
		for _, m := range s.models.Models() {
			out = append(out, modelSummary{ID: m.ID, Title: m.Title, Properties: m.Keys()})
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleScaffold(w http.ResponseWriter, r *http.Request) {
	if s.models == nil {
		s.writeError(w, http.StatusNotFound, "NO_MODELS", "no model catalog configured")
		return
	}
	widget, err := binding.NewScaffolder(s.models).Scaffold(chi.URLParam(r, "modelID"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, widget)
}

func (s *Server) handleListDesigns(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	summaries, err := store.List(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if summaries == nil {
		summaries = []library.Summary{}
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetDesign(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	design, err := store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, design)
}

func (s *Server) handlePutDesign(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	var design model.Design
	if err := decodeJSON(w, r, &design); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid design: "+err.Error())
		return
	}
	if design.ID == "" {
		design.ID = id
	}
	if design.ID != id {
		s.writeError(w, http.StatusBadRequest, "ID_MISMATCH", "design id does not match path")
		return
	}
	design.Normalize()
	if err := design.Check(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "INVALID_DESIGN", err.Error())
		return
	}
	saved, err := store.Save(r.Context(), design)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.logger.Debug("design saved", "design", saved.ID, "widgets", len(saved.Widgets))
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteDesign(w http.ResponseWriter, r *http.Request) {
	store, ok := s.store(w)
	if !ok {
		return
	}
	if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	design, err := s.orch.Resolve(r.Context(), chi.URLParam(r, "id"), nil)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	issues := orchestrator.Lint(design)
	if issues == nil {
		issues = []orchestrator.Issue{}
	}
	s.writeJSON(w, http.StatusOK, lintBody{Issues: issues})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("renderer"))
	if name != "" {
		if _, err := s.orch.Registry().Get(name); err != nil {
			s.writeError(w, http.StatusBadRequest, "UNKNOWN_RENDERER", err.Error())
			return
		}
	}
	id := chi.URLParam(r, "id")
	opts := render.RenderOptions{
		Mode:   model.ParseMode(query.Get("mode")),
		Action: "/api/designs/" + id + "/submit",
		Method: http.MethodPost,
	}
	result, err := s.orch.Generate(r.Context(), orchestrator.Request{
		DesignID:      id,
		Renderer:      name,
		ThemeName:     query.Get("theme"),
		ThemeVariant:  query.Get("variant"),
		RenderOptions: opts,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Output); err != nil {
		s.logger.Warn("write render output", "design", id, "error", err)
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var body valuesBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid values: "+err.Error())
		return
	}
	result, err := s.orch.Validate(r.Context(), orchestrator.ValidateRequest{
		DesignID: chi.URLParam(r, "id"),
		Values:   body.Values,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, validationResponse(result))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body valuesBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid values: "+err.Error())
		return
	}
	result, err := s.orch.Submit(r.Context(), orchestrator.ValidateRequest{
		DesignID: chi.URLParam(r, "id"),
		Values:   body.Values,
	}, s.submit)
	switch {
	case errors.Is(err, orchestrator.ErrInvalidSubmission):
		s.writeJSON(w, http.StatusUnprocessableEntity, validationResponse(result))
	case err != nil:
		s.writeFailure(w, err)
	default:
		s.writeJSON(w, http.StatusOK, validationResponse(result))
	}
}

func validationResponse(result orchestrator.Validation) validationBody {
	errs := result.FieldErrors()
	if errs == nil {
		errs = map[string][]string{}
	}
	return validationBody{
		Valid:  result.Valid(),
		Errors: errs,
		Values: result.Values,
	}
}
