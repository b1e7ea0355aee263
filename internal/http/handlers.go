package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"subledger/internal/aggregate"
	"subledger/internal/ledger"
	"subledger/internal/log"
)

func (s *Server) summary() aggregate.Summary {
	return aggregate.Summarize(s.store.List(), s.now(), s.window)
}

// handleIndex renders the page; ?service=<name> pre-fills the add form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	form := formValues{Service: sanitizeInput(r.URL.Query().Get("service"))}
	s.renderPage(w, r, http.StatusOK, form.prefilled(s.store.Catalog()), "")
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, form formValues, errMsg string) {
	subs := s.store.List()
	data := newPageData(subs, aggregate.Summarize(subs, s.now(), s.window), s.store.Catalog())
	data.Form = form
	data.Error = errMsg

	// Render into a buffer so a template failure still yields a clean 500.
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to render page",
			log.NewFields().WithError(err).ToSlice()...)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// handleCreate serves both the page form and the JSON API.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		if parser.IsJSON() {
			BadRequestError("malformed request body").Write(w)
			return
		}
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	form := readForm(parser)
	sub, err := s.store.Add(r.Context(), form.draft())

	if parser.IsJSON() {
		switch {
		case err == nil:
			NewResponse().Status(http.StatusCreated).JSON(sub).Write(w)
		case errors.Is(err, ledger.ErrIncompleteDraft):
			NewResponse().Status(http.StatusNoContent).Write(w)
		case isValidationError(err):
			UnprocessableEntityError(errorMessage(err)).Write(w)
		default:
			s.logFailure(r.Context(), log.OpAdd, err)
			InternalServerError("could not save subscription").Write(w)
		}
		return
	}

	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, ledger.ErrIncompleteDraft):
		s.renderPage(w, r, http.StatusOK, form.prefilled(s.store.Catalog()), "")
	case isValidationError(err):
		s.renderPage(w, r, http.StatusUnprocessableEntity, form, errorMessage(err))
	default:
		s.logFailure(r.Context(), log.OpAdd, err)
		s.renderPage(w, r, http.StatusInternalServerError, form, "Não foi possível salvar a subscrição")
	}
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.logFailure(r.Context(), log.OpRemove, err)
		s.renderPage(w, r, http.StatusInternalServerError, formValues{}, "Não foi possível remover a subscrição")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) logFailure(ctx context.Context, op string, err error) {
	log.FromContext(ctx).ErrorContext(ctx, "Ledger mutation failed",
		log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
}

func isValidationError(err error) bool {
	return errors.Is(err, ledger.ErrInvalidPrice) || errors.Is(err, ledger.ErrInvalidDate)
}
