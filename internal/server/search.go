package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-formdesigner/pkg/cascade"
	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/search"
)

const defaultSearchLimit = 20

type searchBody struct {
	Query   string         `json:"query"`
	Options []model.Option `json:"options"`
}

// handleSearch answers option lookups for a choice or searchable field.
// Cascading fields resolve against the "source" query parameter.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	designID := chi.URLParam(r, "id")
	fieldID := chi.URLParam(r, "fieldID")
	design, err := s.orch.Resolve(r.Context(), designID, nil)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	field, _, ok := model.FindField(design.Widgets, fieldID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "NOT_FOUND", "field not found: "+fieldID)
		return
	}
	if !field.Type.OptionBearing() {
		s.writeError(w, http.StatusBadRequest, "NOT_SEARCHABLE", "field does not carry options: "+fieldID)
		return
	}

	query := r.URL.Query()
	limit := defaultSearchLimit
	if raw := query.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	values := model.Values{}
	key := strings.Join([]string{design.ID, strconv.FormatInt(design.UpdatedAt.UnixNano(), 10), field.ID, strconv.Itoa(limit)}, "/")
	if src := field.CascadeSource(); src != "" {
		values[src] = query.Get("source")
		key += "/" + query.Get("source")
	}

	searcher, err := s.searcher(key, cascade.ResolveOptions(*field, values), limit)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	text := query.Get("q")
	options, err := searcher.Search(r.Context(), text)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, searchBody{Query: text, Options: options})
}

func (s *Server) searcher(key string, options []model.Option, limit int) (*search.Searcher, error) {
	if searcher, ok := s.searchers.Get(key); ok {
		return searcher, nil
	}
	opts := append([]search.Option{search.WithLogger(s.logger.Named("search"))}, s.searchOpts...)
	searcher, err := search.New(search.StaticSource(options, limit, search.EmptyTop), opts...)
	if err != nil {
		return nil, err
	}
	if existing, ok, _ := s.searchers.PeekOrAdd(key, searcher); ok {
		searcher.Close()
		return existing, nil
	}
	return searcher, nil
}
