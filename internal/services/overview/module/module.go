// Package module wires the overview into the API using modkit
package module

import (
	"net/http"

	modkit "pulseboard/internal/modkit"
	"pulseboard/internal/modkit/httpkit"
	str "pulseboard/internal/platform/strings"
	overviewhttp "pulseboard/internal/services/overview/http"
	overviewrepo "pulseboard/internal/services/overview/repo"
	overviewsvc "pulseboard/internal/services/overview/service"
)

// Module implements the overview module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc overviewsvc.Service
}

// New constructs the overview module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append(
		[]modkit.Option{modkit.WithName("overview"), modkit.WithPrefix("/overview")},
		opts...,
	)...)

	repo := overviewrepo.NewPG()
	svc := overviewsvc.New(deps.PG, repo)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Overview: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		overviewhttp.Register(r, m.svc)
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
