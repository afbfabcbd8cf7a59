package ssr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/isoshell/internal/errors"
	"github.com/vango-dev/isoshell/pkg/assets"
	"github.com/vango-dev/isoshell/pkg/loader"
	"github.com/vango-dev/isoshell/pkg/render"
	"github.com/vango-dev/isoshell/pkg/router"
	"github.com/vango-dev/isoshell/pkg/static"
	"github.com/vango-dev/isoshell/pkg/store"
)

// DefaultLoadTimeout bounds the loader barrier when Config leaves it unset.
const DefaultLoadTimeout = 10 * time.Second

const tracerName = "github.com/vango-dev/isoshell/pkg/ssr"

// Config configures an Orchestrator.
type Config struct {
	// Table is the route table. Required.
	Table *router.Table

	// Static resolves static assets. Nil disables the static check.
	Static *static.Resolver

	// Assets supplies the bundle manifest. Nil means an empty manifest.
	Assets assets.Provider

	// Bootstrap is the state every request store starts from. It is
	// copied per request.
	Bootstrap store.State

	// DevMode refreshes the asset manifest before every render.
	DevMode bool

	// DisableSSR skips routing and loading and always sends the
	// client-only page.
	DisableSSR bool

	// LoadTimeout bounds guard loads and the loader barrier together. Zero
	// disables the bound.
	LoadTimeout time.Duration

	// LoadLimit caps concurrent loaders per request. Zero means no cap.
	LoadLimit int

	// Lang and Title are document defaults.
	Lang  string
	Title string

	// Context derives the context loaders and guards run with, e.g. to
	// forward the inbound cookies to the API client.
	Context func(context.Context, Request) context.Context

	// Observer receives state transitions.
	Observer Observer

	// Tracer creates the load and render spans. Defaults to the global
	// provider's tracer.
	Tracer trace.Tracer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the default load timeout.
func DefaultConfig() Config {
	return Config{
		LoadTimeout: DefaultLoadTimeout,
		Lang:        "en",
	}
}

// Orchestrator runs the render state machine. It is safe for concurrent use;
// all per-request state lives in the run.
type Orchestrator struct {
	cfg      Config
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Table == nil {
		return nil, errors.New(errors.CodeConfig).WithSubject("ssr").Wrap(fmt.Errorf("route table is required"))
	}
	if cfg.Assets == nil {
		cfg.Assets = assets.Static{}
	}
	o := &Orchestrator{
		cfg:      cfg,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
		observer: cfg.Observer,
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	return o, nil
}

// run is the per-request state of one orchestration.
type run struct {
	o     *Orchestrator
	ctx   context.Context
	req   Request
	phase Phase
}

func (r *run) to(p Phase) {
	from := r.phase
	if !CanTransition(from, p) {
		// Unreachable unless the state machine below is edited wrongly.
		panic(fmt.Sprintf("ssr: illegal transition %s -> %s", from, p))
	}
	r.phase = p
	r.o.observer.Transition(r.ctx, r.req, from, p)
}

// Handle runs the state machine for req and returns its result.
func (o *Orchestrator) Handle(ctx context.Context, req Request) Result {
	start := time.Now()
	ctx = WithRequest(ctx, req)
	r := &run{o: o, ctx: ctx, req: req, phase: PhaseReceived}
	o.observer.Transition(ctx, req, "", PhaseReceived)

	res := o.handle(r)

	o.observer.Finished(ctx, req, r.phase, res, time.Since(start))
	return res
}

func (o *Orchestrator) handle(r *run) Result {
	r.to(PhaseStaticCheck)
	if o.cfg.Static != nil {
		if a, ok := o.cfg.Static.Resolve(r.req.Path); ok {
			r.to(PhaseStaticResponded)
			return StaticFile{Asset: a}
		}
	}

	if o.cfg.DevMode {
		if err := o.cfg.Assets.Refresh(); err != nil {
			o.logger.Warn("asset manifest refresh failed", "request_id", r.req.ID, "error", err)
		}
	}

	st := store.New(o.cfg.Bootstrap.Clone())

	if o.cfg.DisableSSR {
		r.to(PhaseResponded)
		return Markup{HTML: o.clientOnly(r, st), Code: http.StatusOK}
	}

	ctx := r.ctx
	if o.cfg.Context != nil {
		ctx = o.cfg.Context(ctx, r.req)
	}

	// Guards may load data while matching, so one budget covers them and
	// the barrier.
	loadCtx := ctx
	if o.cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, o.cfg.LoadTimeout)
		defer cancel()
	}

	r.to(PhaseRouted)
	out := o.cfg.Table.Match(loadCtx, st, r.req.routePath(), r.req.Query)
	switch out.Kind() {
	case router.KindRedirect:
		r.to(PhaseRedirected)
		return Redirect{Location: out.Redirect.String()}

	case router.KindError:
		if errors.HasCode(out.Err, errors.CodeLoadTimeout) {
			r.to(PhaseLoadFailed)
			return o.failure(r, st, "guard load timed out", out.Err)
		}
		r.to(PhaseRouteError)
		return o.failure(r, st, "route match failed", out.Err)

	case router.KindUnmatched:
		r.to(PhaseNotFound)
		return o.notFound(ctx, r, st)
	}

	m := out.Match
	r.to(PhaseDataLoading)
	if err := o.load(loadCtx, r, st, m.Route); err != nil {
		r.to(PhaseLoadFailed)
		return o.failure(r, st, "data load failed", err)
	}

	r.to(PhaseRendering)
	html, err := o.render(ctx, r, st, m)
	if err != nil {
		r.to(PhaseRenderFailed)
		return o.failure(r, st, "render failed", err)
	}
	r.to(PhaseResponded)
	return Markup{HTML: html, Code: m.Route.Status}
}

// load runs the shell's and the route's loaders behind one barrier.
func (o *Orchestrator) load(ctx context.Context, r *run, st *store.Store, route *router.Route) error {
	ctx, span := o.tracer.Start(ctx, "ssr.load",
		trace.WithAttributes(
			attribute.String("isoshell.route", route.Name),
			attribute.String("isoshell.request_id", r.req.ID),
		))
	defer span.End()

	report, err := loader.RunWith(ctx, st, loader.Options{Limit: o.cfg.LoadLimit}, o.cfg.Table.Loaders(route)...)
	span.SetAttributes(
		attribute.StringSlice("isoshell.loaders.invoked", report.Invoked),
		attribute.StringSlice("isoshell.loaders.skipped", report.Skipped),
	)
	o.logger.Debug("loaders settled",
		"request_id", r.req.ID,
		"route", route.Name,
		"invoked", report.Invoked,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"elapsed", report.Elapsed)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.CodeOf(err))
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// viewContext builds what views render from.
func (o *Orchestrator) viewContext(r *run, state store.State, m *router.Match) router.ViewContext {
	vc := router.ViewContext{
		Path:  r.req.Path,
		Query: r.req.Query,
		State: state,
		Props: o.cfg.Table.Shell().PropsFor(state),
	}
	if m != nil {
		vc.Params = m.Params
	}
	return vc
}

// render produces the document for a matched route.
func (o *Orchestrator) render(ctx context.Context, r *run, st *store.Store, m *router.Match) ([]byte, error) {
	ctx, span := o.tracer.Start(ctx, "ssr.render",
		trace.WithAttributes(attribute.String("isoshell.route", m.Route.Name)))
	defer span.End()

	state := st.State()
	vc := o.viewContext(r, state, m)
	html, err := render.Bytes(ctx, render.Document{
		Lang:   o.cfg.Lang,
		Title:  o.title(m.Route),
		Assets: o.cfg.Assets.Assets(),
		Body:   o.cfg.Table.Shell().Wrap(vc, m.Route.View(vc)),
		State:  state,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.CodeOf(err))
		return nil, err
	}
	span.SetAttributes(attribute.Int("isoshell.bytes", len(html)))
	span.SetStatus(codes.Ok, "")
	return html, nil
}

// notFound renders the table's not-found view inside the shell, falling back
// to a plain "Not Found".
func (o *Orchestrator) notFound(ctx context.Context, r *run, st *store.Store) Result {
	view := o.cfg.Table.NotFound()
	if view == nil {
		return NotFound{Body: []byte("Not Found")}
	}

	state := st.State()
	vc := o.viewContext(r, state, nil)
	html, err := render.Bytes(ctx, render.Document{
		Lang:   o.cfg.Lang,
		Title:  o.cfg.Title,
		Assets: o.cfg.Assets.Assets(),
		Body:   o.cfg.Table.Shell().Wrap(vc, view(vc)),
		State:  state,
	})
	if err != nil {
		o.logger.Error("not-found view failed", "request_id", r.req.ID, "path", r.req.Path, "error", err)
		return NotFound{Body: []byte("Not Found")}
	}
	return NotFound{Body: html, HTML: true}
}

// failure logs err in full and returns the opaque client-only page.
func (o *Orchestrator) failure(r *run, st *store.Store, msg string, err error) Result {
	code := errors.CodeOf(err)
	if errors.HasCode(err, errors.CodeLoadTimeout) {
		code = errors.CodeLoadTimeout
	}
	o.logger.Error(msg,
		"request_id", r.req.ID,
		"path", r.req.Path,
		"phase", string(r.phase),
		"code", code,
		"error", err)
	return Error{
		Code:   http.StatusInternalServerError,
		Detail: code,
		Body:   o.clientOnly(r, st),
	}
}

// clientOnly renders the hydration-only document around whatever st holds.
func (o *Orchestrator) clientOnly(r *run, st *store.Store) []byte {
	html, err := render.Bytes(r.ctx, render.Document{
		Lang:   o.cfg.Lang,
		Title:  o.cfg.Title,
		Assets: o.cfg.Assets.Assets(),
		State:  st.State(),
	})
	if err != nil {
		o.logger.Error("client-only document failed", "request_id", r.req.ID, "error", err)
		return []byte("Internal Server Error")
	}
	return html
}

func (o *Orchestrator) title(route *router.Route) string {
	if route.Title != "" {
		return route.Title
	}
	if s := o.cfg.Table.Shell(); s != nil && s.Title != "" {
		return s.Title
	}
	return o.cfg.Title
}
