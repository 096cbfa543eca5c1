package http

import (
	"context"
	"errors"
	"net/http"

	"relatoriomei/internal/log"
	"relatoriomei/internal/navigator"
)

func (s *Server) handleNavigatorPartial(w http.ResponseWriter, r *http.Request) {
	s.renderNavigator(w, r, NewHTMXResponse())
}

func (s *Server) renderNavigator(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder) {
	s.render(w, r, b, "navigator", s.nav.View())
}

// navigatorInput parses the body and reads one integer value.
func navigatorInput(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return 0, false
	}
	n, err := p.GetInt(key)
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return 0, false
	}
	return n, true
}

// handleSelectYear runs the fade-out, switch and fade-in before answering,
// so the strip re-renders once the transition is over.
func (s *Server) handleSelectYear(w http.ResponseWriter, r *http.Request) {
	year, ok := navigatorInput(w, r, "year")
	if !ok {
		return
	}
	before := s.nav.Selected()
	if err := s.nav.SwitchYear(r.Context(), year); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		InternalServerError("Não foi possível trocar o ano").Write(w)
		return
	}
	b := NewHTMXResponse()
	if after := s.nav.Selected(); after != before {
		b.TriggerPeriodChanged(after.String())
	}
	s.renderNavigator(w, r, b)
}

func (s *Server) handleSelectMonth(w http.ResponseWriter, r *http.Request) {
	month, ok := navigatorInput(w, r, "month")
	if !ok {
		return
	}
	if err := s.nav.SelectMonth(month); err != nil {
		BadRequestError("Mês inválido").Write(w)
		return
	}
	s.renderNavigator(w, r, NewHTMXResponse().TriggerPeriodChanged(s.nav.Selected().String()))
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	switch p.Get("direction") {
	case "left":
		s.nav.ScrollLeft()
	case "right":
		s.nav.ScrollRight()
	default:
		BadRequestError("Direção inválida").Write(w)
		return
	}
	s.renderNavigator(w, r, NewHTMXResponse())
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	width, ok := navigatorInput(w, r, "width")
	if !ok {
		return
	}
	if width <= 0 {
		BadRequestError("Largura inválida").Write(w)
		return
	}
	s.nav.Resize(width)
	s.renderNavigator(w, r, NewHTMXResponse())
}

func (s *Server) handleRequestDeletePeriod(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	period, err := ParsePeriodParam(p.Get("period"))
	if err != nil {
		BadRequestError("Período inválido").Write(w)
		return
	}
	if err := s.nav.RequestDeletePeriod(period); err != nil {
		BadRequestError("Período inválido").Write(w)
		return
	}
	s.renderNavigator(w, r, NewHTMXResponse())
}

func (s *Server) handleRequestDeleteYear(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	year, err := ParseYearParam(p.Get("year"))
	if err != nil {
		BadRequestError("Ano inválido").Write(w)
		return
	}
	s.nav.RequestDeleteYear(year)
	s.renderNavigator(w, r, NewHTMXResponse())
}

// handleConfirmDelete performs the pending deletion. The form re-renders in
// case the edited period was cleared.
func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pending := s.nav.View().Confirm
	if err := s.nav.ConfirmDelete(ctx); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentNavigator).ErrorContext(ctx, "Delete failed",
			log.FieldOperation, log.OpDelete, log.FieldError, err)
		InternalServerError("Não foi possível limpar os dados").Write(w)
		return
	}
	b := NewHTMXResponse()
	if pending != nil {
		b.TriggerFormRefresh().TriggerSuccessNotification(deletedMessage(pending))
	}
	s.renderNavigator(w, r, b)
}

func deletedMessage(c *navigator.Confirmation) string {
	if c.Year != 0 {
		return "Dados do ano removidos."
	}
	return "Dados do mês removidos."
}

func (s *Server) handleCancelDelete(w http.ResponseWriter, r *http.Request) {
	s.nav.CancelDelete()
	s.renderNavigator(w, r, NewHTMXResponse())
}
