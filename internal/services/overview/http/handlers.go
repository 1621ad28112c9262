// Package http provides http transport for the overview
package http

import (
	stdhttp "net/http"
	"strconv"

	"pulseboard/internal/modkit/httpkit"
	perr "pulseboard/internal/platform/errors"
	"pulseboard/internal/services/overview/domain"
	svc "pulseboard/internal/services/overview/service"
)

// Register mounts overview endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.GetJSON(r, "/", h.overview)
}

type handlers struct{ svc svc.Service }

// @Summary Multi-facet window overview
// @Tags Overview
// @Produce json
// @Param days query int false "rolling window in days, 1..30" default(1)
// @Param date query string false "calendar day YYYY-MM-DD, wins over days"
// @Param chat_id query string false "chat scope, empty or all disables"
// @Success 200 {object} domain.Report "ok"
// @Router /overview [get]
func (h *handlers) overview(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()

	days := 0
	if raw := q.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.InvalidWindowf("days must be an integer, got %q", raw)
		}
		days = n
	}

	return h.svc.Overview(r.Context(), domain.Input{
		Days:   days,
		Date:   q.Get("date"),
		ChatID: q.Get("chat_id"),
	})
}
