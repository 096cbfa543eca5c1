package http

import (
	"errors"
	"net/http"

	"relatoriomei/internal/core"
	"relatoriomei/internal/log"
)

type profileBody struct {
	CNPJ  *string `json:"cnpj"`
	Nome  *string `json:"nome"`
	Local *string `json:"local"`
}

type reportBody struct {
	ComercioSemDoc  *string `json:"comercioSemDoc"`
	ComercioComDoc  *string `json:"comercioComDoc"`
	IndustriaSemDoc *string `json:"industriaSemDoc"`
	IndustriaComDoc *string `json:"industriaComDoc"`
	ServicosSemDoc  *string `json:"servicosSemDoc"`
	ServicosComDoc  *string `json:"servicosComDoc"`
	DataAssinatura  *string `json:"dataAssinatura"`
}

type totalsJSON struct {
	Comercio  string `json:"comercio"`
	Industria string `json:"industria"`
	Servicos  string `json:"servicos"`
	Geral     string `json:"geral"`
}

type reportJSON struct {
	Period  string      `json:"period"`
	Label   string      `json:"label"`
	Report  core.Report `json:"report"`
	Totals  totalsJSON  `json:"totals"`
	HasData bool        `json:"hasData"`
}

type yearJSON struct {
	Year   int `json:"year"`
	Filled int `json:"filled"`
}

type deletedYearJSON struct {
	Year    int      `json:"year"`
	Removed []string `json:"removed"`
}

func toReportJSON(p core.Period, r core.Report) reportJSON {
	t := core.ComputeTotals(r)
	return reportJSON{
		Period:  p.String(),
		Label:   p.ShortLabel(),
		Report:  r,
		Totals:  totalsJSON{Comercio: t.Comercio, Industria: t.Industria, Servicos: t.Servicos, Geral: t.Geral},
		HasData: r.HasData(),
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	var body profileBody
	if err := decodeJSON(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.CNPJ != nil {
		masked := core.FormatCNPJ(*body.CNPJ)
		body.CNPJ = &masked
	}
	s.store.SetProfile(r.Context(), core.ProfilePatch{CNPJ: body.CNPJ, Nome: body.Nome, Local: body.Local})
	writeJSON(w, http.StatusOK, s.store.Profile())
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	filled := s.store.FilledReports()
	out := make([]reportJSON, 0, len(filled))
	for _, pr := range filled {
		out = append(out, toReportJSON(pr.Period, pr.Report))
	}
	writeJSON(w, http.StatusOK, out)
}

func pathPeriod(w http.ResponseWriter, r *http.Request) (core.Period, bool) {
	p, err := ParsePeriodParam(r.PathValue("period"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return core.Period{}, false
	}
	return p, true
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	p, ok := pathPeriod(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toReportJSON(p, s.store.Report(p)))
}

// handlePatchReport rejects amounts that do not parse instead of storing
// them and totalling them as zero. Accepted amounts are stored with two
// decimals.
func (s *Server) handlePatchReport(w http.ResponseWriter, r *http.Request) {
	p, ok := pathPeriod(w, r)
	if !ok {
		return
	}
	var body reportBody
	if err := decodeJSON(r, &body); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	amounts := map[string]*string{
		core.FieldComercioSemDoc:  body.ComercioSemDoc,
		core.FieldComercioComDoc:  body.ComercioComDoc,
		core.FieldIndustriaSemDoc: body.IndustriaSemDoc,
		core.FieldIndustriaComDoc: body.IndustriaComDoc,
		core.FieldServicosSemDoc:  body.ServicosSemDoc,
		core.FieldServicosComDoc:  body.ServicosComDoc,
	}
	for name, v := range amounts {
		if v == nil {
			continue
		}
		if _, err := core.ParseAmountStrict(*v); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "valor inválido para "+name)
			return
		}
		*v = core.NormalizeAmount(*v)
	}

	patch := core.ReportPatch{
		ComercioSemDoc:  body.ComercioSemDoc,
		ComercioComDoc:  body.ComercioComDoc,
		IndustriaSemDoc: body.IndustriaSemDoc,
		IndustriaComDoc: body.IndustriaComDoc,
		ServicosSemDoc:  body.ServicosSemDoc,
		ServicosComDoc:  body.ServicosComDoc,
		DataAssinatura:  body.DataAssinatura,
	}
	if err := s.store.SetReport(r.Context(), p, patch); err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportJSON(p, s.store.Report(p)))
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	p, ok := pathPeriod(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePeriod(r.Context(), p); err != nil {
		s.apiError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListYears(w http.ResponseWriter, r *http.Request) {
	years := s.store.Years()
	out := make([]yearJSON, 0, len(years))
	for _, y := range years {
		out = append(out, yearJSON{Year: y, Filled: s.store.FilledMonths(y)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteYear(w http.ResponseWriter, r *http.Request) {
	year, err := ParseYearParam(r.PathValue("year"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	removed := s.store.DeleteYear(r.Context(), year)
	out := deletedYearJSON{Year: year, Removed: make([]string, 0, len(removed))}
	for _, p := range removed {
		out.Removed = append(out.Removed, p.String())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrInvalidPeriod) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.FromContext(r.Context()).ErrorContext(r.Context(), "API request failed", log.FieldPath, r.URL.Path, log.FieldError, err)
	writeJSONError(w, http.StatusInternalServerError, "erro interno")
}
