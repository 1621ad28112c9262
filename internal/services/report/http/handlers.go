// Package http provides http transport for the daily report
package http

import (
	stdhttp "net/http"

	"pulseboard/internal/core/digest"
	"pulseboard/internal/modkit/httpkit"
	perr "pulseboard/internal/platform/errors"
	"pulseboard/internal/platform/net/http/bind"
	"pulseboard/internal/services/report/domain"
	svc "pulseboard/internal/services/report/service"
	"pulseboard/internal/services/summarizer"
)

// Register mounts report endpoints on the given router
func Register(r httpkit.Router, s svc.Service, d summarizer.Digester) {
	h := &handlers{svc: s, dig: d}

	httpkit.GetJSON(r, "/preview", h.preview)
	httpkit.GetJSON(r, "/digest", h.digest)
	httpkit.GetJSON(r, "/insights", h.insights)
}

type handlers struct {
	svc svc.Service
	dig summarizer.Digester
}

func previewInput(r *stdhttp.Request) domain.PreviewInput {
	q := r.URL.Query()
	return domain.PreviewInput{
		Date:     q.Get("date"),
		ChatID:   q.Get("chat_id"),
		SinceUTC: q.Get("since"),
		UntilUTC: q.Get("until"),
	}
}

// @Summary Daily preview payload
// @Tags Report
// @Produce json
// @Param date query string true "calendar day YYYY-MM-DD"
// @Param chat_id query string false "chat scope"
// @Param since query string false "RFC3339 window override, with until"
// @Param until query string false "RFC3339 window override, with since"
// @Success 200 {object} domain.Preview "ok"
// @Router /report/preview [get]
func (h *handlers) preview(r *stdhttp.Request) (any, error) {
	return h.svc.Preview(r.Context(), previewInput(r))
}

// @Summary Structured daily digest with rendered text
// @Tags Report
// @Produce json
// @Param date query string true "calendar day YYYY-MM-DD"
// @Param chat_id query string false "chat scope"
// @Success 200 {object} domain.DigestOutput "ok"
// @Router /report/digest [get]
func (h *handlers) digest(r *stdhttp.Request) (any, error) {
	p, err := h.svc.Preview(r.Context(), previewInput(r))
	if err != nil {
		return nil, err
	}
	d, err := h.dig.Digest(r.Context(), svc.ExportInput(p))
	if err != nil {
		return nil, err
	}
	if err := bind.Struct(&d); err != nil {
		return nil, perr.SummarizerSchemaf("digest failed schema validation: %v", err)
	}
	return domain.DigestOutput{JSON: d, Markdown: digest.Render(d)}, nil
}

// @Summary Free-form daily insights
// @Tags Report
// @Produce json
// @Param date query string true "calendar day YYYY-MM-DD"
// @Param chat_id query string false "chat scope"
// @Success 200 {object} domain.InsightsOutput "ok"
// @Router /report/insights [get]
func (h *handlers) insights(r *stdhttp.Request) (any, error) {
	p, err := h.svc.Preview(r.Context(), previewInput(r))
	if err != nil {
		return nil, err
	}
	md, err := h.dig.Insights(r.Context(), svc.ExportInput(p))
	if err != nil {
		return nil, err
	}
	return domain.InsightsOutput{Markdown: md}, nil
}
