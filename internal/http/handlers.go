package http

import (
	"context"
	"net/http"
	"time"

	"cofrinho/internal/advice"
	"cofrinho/internal/aggregate"
	"cofrinho/internal/core"
	"cofrinho/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := ParseViewState(r.URL.Query(), s.now())
	s.tracker.Select(st.Month)
	s.renderDashboard(w, r, http.StatusOK, st, defaultForm())
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, st aggregate.State, form formView) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	entries, err := s.ledger.Entries(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load ledger", log.NewFields().WithOperation(log.OpList).WithError(err).ToSlice()...)
		InternalServerError("Não foi possível carregar os lançamentos.").Write(w)
		return
	}

	snap := aggregate.Compute(entries, st)
	page, err := s.renderTemplate("index.html", buildDashboard(snap, st, s.household, form))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to render dashboard",
			log.NewFields().WithComponent(log.ComponentTemplate).WithOperation(log.OpRender).WithError(err).ToSlice()...)
		InternalServerError("Erro ao montar a página.").Write(w)
		return
	}
	NewHTMXResponse().Status(status).BodyHTML(page).Write(w)
}

// handleCreateEntry accepts the entry form, or the same fields as JSON.
// Rejected forms re-render the dashboard with the typed values and a 422.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato da requisição inválido.").Write(w)
		return
	}

	now := s.now()
	st := ParseViewState(p, now)
	in := ParseEntryForm(p)

	entry, err := core.NewEntry(in, now, st.Month)
	if err != nil {
		logger.InfoContext(ctx, "Entry rejected", log.FieldError, err.Error())
		if p.IsJSON() {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": entryErrorMessage(err)})
			return
		}
		s.renderDashboard(w, r, http.StatusUnprocessableEntity, st, formFromInput(in, err))
		return
	}

	if err := s.ledger.Append(ctx, entry); err != nil {
		logger.ErrorContext(ctx, "Failed to append entry", log.NewFields().WithOperation(log.OpAppend).WithError(err).ToSlice()...)
		InternalServerError("Não foi possível salvar o lançamento.").Write(w)
		return
	}

	if p.IsJSON() {
		writeJSON(w, http.StatusCreated, newEntryJSON(entry))
		return
	}
	http.Redirect(w, r, dashboardURL(st), http.StatusSeeOther)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato da requisição inválido.").Write(w)
		return
	}
	st := ParseViewState(p, s.now())

	if err := s.ledger.Remove(ctx, r.PathValue("id")); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to remove entry",
			log.NewFields().WithOperation(log.OpRemove).WithError(err).ToSlice()...)
		InternalServerError("Não foi possível apagar o lançamento.").Write(w)
		return
	}
	http.Redirect(w, r, dashboardURL(st), http.StatusSeeOther)
}

// handleAdvice returns the advice partial for the month in the form. An
// answer that arrives after a newer request or a month change is dropped
// with 204 so htmx leaves the page alone.
func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Formato da requisição inválido.").Write(w)
		return
	}
	st := ParseViewState(p, s.now())

	entries, err := s.ledger.Entries(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load ledger", log.NewFields().WithOperation(log.OpList).WithError(err).ToSlice()...)
		InternalServerError("Não foi possível carregar os lançamentos.").Write(w)
		return
	}
	monthEntries := aggregate.FilterMonth(entries, st.Month)
	monthName := core.MonthName(st.Month)

	adviceCtx, ticket := s.tracker.Begin(ctx, st.Month)
	defer s.tracker.Finish(ticket)
	if s.adviceTimeout > 0 {
		var cancel context.CancelFunc
		adviceCtx, cancel = context.WithTimeout(adviceCtx, s.adviceTimeout)
		defer cancel()
	}

	start := time.Now()
	text := s.advisor.Advise(adviceCtx, monthEntries, monthName)

	if !s.tracker.Current(ticket) {
		s.metrics.IncAdvice(advice.OutcomeStale)
		logger.InfoContext(ctx, "Discarded stale advice",
			log.FieldMonth, monthName,
			log.FieldDuration, time.Since(start).Milliseconds())
		w.WriteHeader(http.StatusNoContent)
		return
	}

	body, err := s.renderTemplate("advice", adviceView{MonthName: monthName, Text: text})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to render advice", log.FieldError, err.Error())
		InternalServerError(advice.FallbackMessage).Write(w)
		return
	}
	NewHTMXResponse().TriggerAdviceReady(ticket.Month).BodyHTML(body).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := ParseViewState(r.URL.Query(), s.now())

	entries, err := s.ledger.Entries(ctx)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to load ledger", log.FieldError, err.Error())
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ledger unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, buildSummary(aggregate.Compute(entries, st)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady checks that templates are loaded and the ledger answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{}

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if err := s.ledger.Ping(ctx); err != nil {
		checks["ledger"] = "failed: " + err.Error()
		status, code = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["ledger"] = "ok"
	}

	checks["rate_limiter"] = map[string]any{"active_clients": s.rateLimiter.activeClients()}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}
