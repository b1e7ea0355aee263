package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"subledger/internal/aggregate"
	"subledger/internal/core"
	"subledger/internal/log"
)

func (s *Server) handleListJSON(w http.ResponseWriter, r *http.Request) {
	subs := s.store.List()
	if subs == nil {
		subs = []core.Subscription{}
	}
	NewResponse().JSON(subs).Write(w)
}

func (s *Server) handleGetJSON(w http.ResponseWriter, r *http.Request) {
	sub, ok := s.store.Get(chi.URLParam(r, "id"))
	if !ok {
		NotFoundError("subscription not found").Write(w)
		return
	}
	NewResponse().JSON(sub).Write(w)
}

// handleDeleteJSON reports whether anything was removed; an unknown id is
// still a success.
func (s *Server) handleDeleteJSON(w http.ResponseWriter, r *http.Request) {
	removed, err := s.store.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logFailure(r.Context(), log.OpRemove, err)
		InternalServerError("could not remove subscription").Write(w)
		return
	}
	NewResponse().JSON(map[string]bool{"removed": removed}).Write(w)
}

func (s *Server) handleSummaryJSON(w http.ResponseWriter, r *http.Request) {
	summary := s.summary()
	if summary.Upcoming == nil {
		summary.Upcoming = []aggregate.Renewal{}
	}
	if summary.ByCategory == nil {
		summary.ByCategory = []aggregate.CategoryTotal{}
	}
	NewResponse().JSON(summary).Write(w)
}

func (s *Server) handleCatalogJSON(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.store.Catalog()).Write(w)
}
