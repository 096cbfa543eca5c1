package core

import (
	"errors"
)

// Revenue field names as used in the persisted blob and in form posts.
const (
	FieldComercioSemDoc  = "comercioSemDoc"
	FieldComercioComDoc  = "comercioComDoc"
	FieldIndustriaSemDoc = "industriaSemDoc"
	FieldIndustriaComDoc = "industriaComDoc"
	FieldServicosSemDoc  = "servicosSemDoc"
	FieldServicosComDoc  = "servicosComDoc"
	FieldDataAssinatura  = "dataAssinatura"

	FieldCNPJ  = "cnpj"
	FieldNome  = "nome"
	FieldLocal = "local"
)

type (
	// Profile holds the business identity shared by every period.
	Profile struct {
		CNPJ  string `json:"cnpj"`
		Nome  string `json:"nome"`
		Local string `json:"local"`
	}

	// ProfilePatch is a partial Profile; nil fields keep their current value.
	ProfilePatch struct {
		CNPJ  *string
		Nome  *string
		Local *string
	}

	// Report is the monthly revenue record. Amounts are decimal strings.
	Report struct {
		ComercioSemDoc  string `json:"comercioSemDoc"`
		ComercioComDoc  string `json:"comercioComDoc"`
		IndustriaSemDoc string `json:"industriaSemDoc"`
		IndustriaComDoc string `json:"industriaComDoc"`
		ServicosSemDoc  string `json:"servicosSemDoc"`
		ServicosComDoc  string `json:"servicosComDoc"`
		DataAssinatura  string `json:"dataAssinatura"`
	}

	// ReportPatch is a partial Report; nil fields keep their current value.
	ReportPatch struct {
		ComercioSemDoc  *string
		ComercioComDoc  *string
		IndustriaSemDoc *string
		IndustriaComDoc *string
		ServicosSemDoc  *string
		ServicosComDoc  *string
		DataAssinatura  *string
	}

	// PeriodReport pairs a report with the period it belongs to.
	PeriodReport struct {
		Period Period
		Report Report
	}
)

// DefaultProfile is returned when no profile has been stored.
var DefaultProfile = Profile{}

// DefaultReport is returned for periods without a stored report.
var DefaultReport = Report{
	ComercioSemDoc:  "0.00",
	ComercioComDoc:  "0.00",
	IndustriaSemDoc: "0.00",
	IndustriaComDoc: "0.00",
	ServicosSemDoc:  "0.00",
	ServicosComDoc:  "0.00",
	DataAssinatura:  "",
}

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrUnknownField  = errors.New("unknown field")
)

// Merge applies the non-nil fields of p on top of a copy of pr.
func (pr Profile) Merge(p ProfilePatch) Profile {
	if p.CNPJ != nil {
		pr.CNPJ = *p.CNPJ
	}
	if p.Nome != nil {
		pr.Nome = *p.Nome
	}
	if p.Local != nil {
		pr.Local = *p.Local
	}
	return pr
}

// IsEmpty reports whether the patch carries no field.
func (p ProfilePatch) IsEmpty() bool {
	return p.CNPJ == nil && p.Nome == nil && p.Local == nil
}

// Merge applies the non-nil fields of p on top of a copy of r.
func (r Report) Merge(p ReportPatch) Report {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.ComercioSemDoc, p.ComercioSemDoc)
	set(&r.ComercioComDoc, p.ComercioComDoc)
	set(&r.IndustriaSemDoc, p.IndustriaSemDoc)
	set(&r.IndustriaComDoc, p.IndustriaComDoc)
	set(&r.ServicosSemDoc, p.ServicosSemDoc)
	set(&r.ServicosComDoc, p.ServicosComDoc)
	set(&r.DataAssinatura, p.DataAssinatura)
	return r
}

// IsEmpty reports whether the patch carries no field.
func (p ReportPatch) IsEmpty() bool {
	return p.ComercioSemDoc == nil && p.ComercioComDoc == nil &&
		p.IndustriaSemDoc == nil && p.IndustriaComDoc == nil &&
		p.ServicosSemDoc == nil && p.ServicosComDoc == nil &&
		p.DataAssinatura == nil
}

// Amounts returns the six revenue fields in form order.
func (r Report) Amounts() [6]string {
	return [6]string{
		r.ComercioSemDoc, r.ComercioComDoc,
		r.IndustriaSemDoc, r.IndustriaComDoc,
		r.ServicosSemDoc, r.ServicosComDoc,
	}
}

// HasData is true when at least one revenue field parses to a strictly
// positive amount. Unparseable fields count as zero.
func (r Report) HasData() bool {
	for _, a := range r.Amounts() {
		if ParseAmount(a).IsPositive() {
			return true
		}
	}
	return false
}

// IsProfileField reports whether name belongs to the shared profile.
func IsProfileField(name string) bool {
	switch name {
	case FieldCNPJ, FieldNome, FieldLocal:
		return true
	}
	return false
}

// ProfilePatchFor builds a single-field profile patch.
func ProfilePatchFor(field, value string) (ProfilePatch, error) {
	var p ProfilePatch
	switch field {
	case FieldCNPJ:
		p.CNPJ = &value
	case FieldNome:
		p.Nome = &value
	case FieldLocal:
		p.Local = &value
	default:
		return p, ErrUnknownField
	}
	return p, nil
}

// ReportPatchFor builds a single-field report patch.
func ReportPatchFor(field, value string) (ReportPatch, error) {
	var p ReportPatch
	switch field {
	case FieldComercioSemDoc:
		p.ComercioSemDoc = &value
	case FieldComercioComDoc:
		p.ComercioComDoc = &value
	case FieldIndustriaSemDoc:
		p.IndustriaSemDoc = &value
	case FieldIndustriaComDoc:
		p.IndustriaComDoc = &value
	case FieldServicosSemDoc:
		p.ServicosSemDoc = &value
	case FieldServicosComDoc:
		p.ServicosComDoc = &value
	case FieldDataAssinatura:
		p.DataAssinatura = &value
	default:
		return p, ErrUnknownField
	}
	return p, nil
}
