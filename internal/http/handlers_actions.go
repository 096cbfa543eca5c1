package http

import (
	"context"
	"errors"
	"net/http"

	"relatoriomei/internal/form"
	"relatoriomei/internal/log"
)

type command func(ctx context.Context, host form.Host) error

// action runs a form command against a host that records its side effects
// in the response. Commands that only produce triggers answer 204 so htmx
// leaves the page alone. after runs on success and may add triggers.
func (s *Server) action(cmd command, after ...func(b *HTMXResponseBuilder)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		b := NewHTMXResponse()
		host := newResponseHost(b)

		if err := cmd(ctx, host); err != nil {
			if errors.Is(err, form.ErrNoFilledReports) {
				if !b.HasTrigger(TriggerAlert) {
					b.TriggerAlert(form.NoReportsMessage)
				}
				b.Status(http.StatusUnprocessableEntity).Write(w)
				return
			}
			log.FromContext(ctx).WithComponent(log.ComponentExport).ErrorContext(ctx, "Command failed",
				log.FieldPath, r.URL.Path, log.FieldError, err)
			InternalServerError("Não foi possível concluir a operação").Write(w)
			return
		}

		for _, fn := range after {
			fn(b)
		}
		if !host.downloaded {
			b.Status(http.StatusNoContent)
		}
		b.Write(w)
	}
}

// sampleGenerated refreshes the page after demo data replaced the current
// period.
func (s *Server) sampleGenerated(b *HTMXResponseBuilder) {
	b.TriggerReportChanged(s.form.Period().String()).
		TriggerFormRefresh().
		TriggerSuccessNotification("Dados de exemplo gerados.")
}
