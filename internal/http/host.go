package http

import (
	"relatoriomei/internal/form"
)

// responseHost carries the side effects of a form command into the HTTP
// response: page actions become HX-Trigger events and downloads become an
// attachment body.
type responseHost struct {
	b          *HTMXResponseBuilder
	downloaded bool
}

var _ form.Host = (*responseHost)(nil)

func newResponseHost(b *HTMXResponseBuilder) *responseHost {
	return &responseHost{b: b}
}

func (h *responseHost) OpenURL(url string) {
	h.b.TriggerOpenURL(url)
}

func (h *responseHost) Print() {
	h.b.TriggerPrint()
}

func (h *responseHost) Download(filename, contentType string, data []byte) {
	h.b.Attachment(filename, contentType, data)
	h.downloaded = true
}

func (h *responseHost) Alert(message string) {
	h.b.TriggerAlert(message)
}

func (h *responseHost) ConfirmOpen(prompt, url string) {
	h.b.TriggerConfirmOpen(prompt, url)
}
