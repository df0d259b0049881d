package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"

	"github.com/erazemk/trgovina/internal/apiclient"
	"github.com/erazemk/trgovina/internal/editor"
	"github.com/erazemk/trgovina/internal/filter"
	"github.com/erazemk/trgovina/internal/insights"
	"github.com/erazemk/trgovina/internal/metrics"
	"github.com/erazemk/trgovina/internal/notify"
	"github.com/erazemk/trgovina/internal/startup"
)

// DefaultReloadDelay is how long the reload page waits before navigating.
const DefaultReloadDelay = time.Second

// Options configures a Server. Client, Metrics, Poller and Flash are
// required.
type Options struct {
	Client      *apiclient.Client
	Metrics     *metrics.Metrics
	Poller      *insights.Poller
	Charts      *ChartStore
	Flash       *notify.FlashCodec
	Startup     *startup.Sequence
	FilterMode  filter.Mode
	ReloadDelay time.Duration
	RateLimit   limiter.Rate
	Now         func() time.Time
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	client    *apiclient.Client
	metrics   *metrics.Metrics
	poller    *insights.Poller
	charts    *ChartStore
	flash     *notify.FlashCodec
	startup   *startup.Sequence
	templates *Templates

	inventory    *editor.Inventory
	transactions *editor.Transactions
	assets       *editor.Assets

	filterMode  filter.Mode
	reloadDelay time.Duration
	rateLimit   limiter.Rate
	now         func() time.Time
}

// New builds a Server and parses its templates.
func New(opts Options) (*Server, error) {
	if opts.Client == nil || opts.Metrics == nil || opts.Poller == nil || opts.Flash == nil {
		return nil, errors.New("web: client, metrics, poller and flash codec are required")
	}

	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	if opts.Charts == nil {
		opts.Charts = NewChartStore()
	}
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = DefaultReloadDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	deps := editor.Deps{
		Notifier:  notify.ContextNotifier{},
		Confirmer: editor.ContextConfirmer{},
		Tokens:    editor.NewTokens(editor.DefaultTokenTTL),
		Now:       opts.Now,
	}

	return &Server{
		client:       opts.Client,
		metrics:      opts.Metrics,
		poller:       opts.Poller,
		charts:       opts.Charts,
		flash:        opts.Flash,
		startup:      opts.Startup,
		templates:    tmpl,
		inventory:    editor.NewInventory(opts.Client.Inventory(), opts.Client.Catalog(), deps),
		transactions: editor.NewTransactions(opts.Client.Transactions(), deps),
		assets:       editor.NewAssets(opts.Client.Assets(), deps),
		filterMode:   opts.FilterMode,
		reloadDelay:  opts.ReloadDelay,
		rateLimit:    opts.RateLimit,
		now:          opts.Now,
	}, nil
}

// page builds the base page data for the request.
func (s *Server) page(r *http.Request, title, active string) PageData {
	return PageData{
		Title:  title,
		Active: active,
		Alerts: notify.StackFrom(r.Context()).Alerts(),
	}
}
