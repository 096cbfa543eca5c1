package http

import (
	"errors"
	"net/http"

	"relatoriomei/internal/core"
	"relatoriomei/internal/form"
	"relatoriomei/internal/log"
)

func (s *Server) handleFormPartial(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, NewHTMXResponse(), "form", s.form.View())
}

// handleFieldUpdate stores one edit. The field name is sent as "field" and
// its value under the field's own name, so the whole form can be posted.
func (s *Server) handleFieldUpdate(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	field := p.Get("field")
	if field == "" {
		BadRequestError("Campo não informado").Write(w)
		return
	}
	value := p.Get(field)
	if !p.Has(field) {
		value = p.Get("value")
	}

	ctx := r.Context()
	if err := s.form.SetField(ctx, field, value); err != nil {
		if errors.Is(err, form.ErrUnknownField) {
			BadRequestError("Campo desconhecido: " + field).Write(w)
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Failed to save field", log.FieldField, field, log.FieldError, err)
		InternalServerError("Não foi possível salvar o campo").Write(w)
		return
	}

	v := s.form.View()
	b := NewHTMXResponse()
	if !core.IsProfileField(field) {
		b.TriggerReportChanged(v.Period.String())
	}
	s.render(w, r, b, "field-update", fieldUpdate{
		Form: v,
		CNPJ: field == core.FieldCNPJ && v.Profile.CNPJ != value,
	})
}

func (s *Server) handleSignatureDate(w http.ResponseWriter, r *http.Request) {
	p, errResp := ParseBodyOrFail(r)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	part := p.Get("part")
	value := p.Get(part)
	if !p.Has(part) {
		value = p.Get("value")
	}

	ctx := r.Context()
	if err := s.form.SetSignatureDatePart(ctx, part, value); err != nil {
		if errors.Is(err, form.ErrUnknownDatePart) {
			BadRequestError("Parte da data desconhecida: " + part).Write(w)
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Failed to save signature date", log.FieldError, err)
		InternalServerError("Não foi possível salvar a data").Write(w)
		return
	}
	NewHTMXResponse().Status(http.StatusNoContent).Write(w)
}
