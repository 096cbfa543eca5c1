package http

import (
	"html/template"

	"relatoriomei/internal/core"
	"relatoriomei/internal/form"
)

// totalsData renders the totals block, in place or as an out-of-band swap.
type totalsData struct {
	Form form.View
	OOB  bool
}

// cnpjInput renders the masked CNPJ input.
type cnpjInput struct {
	Value string
	OOB   bool
}

// fieldUpdate is the response to a single field edit.
type fieldUpdate struct {
	Form form.View
	// CNPJ is set when the masked value differs from what was typed.
	CNPJ bool
}

var templateFuncs = template.FuncMap{
	"totals": func(v form.View, oob bool) totalsData {
		return totalsData{Form: v, OOB: oob}
	},
	"cnpj": func(v string, oob bool) cnpjInput {
		return cnpjInput{Value: v, OOB: oob}
	},
	"amount": func(s string) string {
		// Show untouched defaults as empty inputs.
		if core.ParseAmount(s).IsZero() {
			return ""
		}
		return s
	},
}
