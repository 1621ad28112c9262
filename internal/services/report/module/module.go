// Package module wires the daily report into the API using modkit
package module

import (
	"net/http"

	modkit "pulseboard/internal/modkit"
	"pulseboard/internal/modkit/httpkit"
	str "pulseboard/internal/platform/strings"
	reporthttp "pulseboard/internal/services/report/http"
	reportrepo "pulseboard/internal/services/report/repo"
	reportsvc "pulseboard/internal/services/report/service"
	"pulseboard/internal/services/summarizer"
)

// Module implements the report module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc reportsvc.Service
	dig summarizer.Digester
}

// New constructs the report module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append(
		[]modkit.Option{modkit.WithName("report"), modkit.WithPrefix("/report")},
		opts...,
	)...)
	o := FromConfig(deps.Cfg)

	repo := reportrepo.NewPG()
	svc := reportsvc.New(deps.PG, repo, reportsvc.Config{DefaultChatID: o.DefaultChatID})
	dig := summarizer.NewClient(summarizer.ConfigFromEnv(deps.Cfg), deps.Log)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
		dig:       dig,
	}
	m.ports = Ports{Report: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		reporthttp.Register(r, m.svc, m.dig)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module port set
func (m *Module) Ports() any { return m.ports }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
