// Package filter keeps the inventory filter state in step with the page
// URL and applies it either by navigating or by calling the search API.
package filter

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/erazemk/trgovina/internal/model"
)

// Mode selects how filters are applied. It is fixed when the controller is
// created.
type Mode int

const (
	// Navigate applies filters by loading the page with a new query.
	Navigate Mode = iota
	// Search applies filters by calling the search API and repainting the
	// table in place.
	Search
)

func (m Mode) String() string {
	if m == Search {
		return "search"
	}
	return "navigate"
}

// ParseMode converts a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "navigate":
		return Navigate, nil
	case "search":
		return Search, nil
	default:
		return Navigate, fmt.Errorf("unknown filter mode %q", s)
	}
}

// SearchDelay is how long typing in the search box must pause before the
// filters are applied. The page script debounces with it.
const SearchDelay = 500 * time.Millisecond

// Keys lists the filter keys in display and query order.
var Keys = []string{"search", "status", "category", "condition", "brand", "drop"}

var labels = map[string]string{
	"search":    "Search",
	"status":    "Status",
	"category":  "Category",
	"condition": "Condition",
	"brand":     "Brand",
	"drop":      "Collection",
}

// API is the part of the inventory API the controller uses.
type API interface {
	Search(ctx context.Context, filters map[string]string) ([]model.Item, error)
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
	Brands(ctx context.Context) ([]string, error)
}

// Controller holds the filter state of one inventory page.
type Controller struct {
	mode Mode
	path string
	api  API

	mu     sync.Mutex
	values map[string]string
}

// New returns a controller for the page at path.
func New(mode Mode, path string, api API) *Controller {
	return &Controller{mode: mode, path: path, api: api, values: make(map[string]string)}
}

// Mode returns the apply mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Load replaces the state with the filter values of u's query. Unknown
// keys are ignored.
func (c *Controller) Load(u *url.URL) {
	q := u.Query()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]string)
	for _, k := range Keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			c.values[k] = v
		}
	}
}

// Set changes one filter. It reports false for an unknown key.
func (c *Controller) Set(key, value string) bool {
	if !slices.Contains(Keys, key) {
		return false
	}
	value = strings.TrimSpace(value)

	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		delete(c.values, key)
	} else {
		c.values[key] = value
	}
	return true
}

// Get returns the value of one filter.
func (c *Controller) Get(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

// Values returns the non-empty filters.
func (c *Controller) Values() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Active reports whether any filter is set.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values) > 0
}

// Remove clears one filter.
func (c *Controller) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

// ClearAll clears every filter and returns the bare page path.
func (c *Controller) ClearAll() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]string)
	return c.path
}

// Query encodes the non-empty filters in key order.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return encode(c.values)
}

// URL returns the page path with the current filters.
func (c *Controller) URL() string {
	return withQuery(c.path, c.Query())
}

// URLWithout returns the page URL with one filter removed, leaving the
// state untouched.
func (c *Controller) URLWithout(key string) string {
	tmp := &Controller{path: c.path, values: c.Values()}
	tmp.Remove(key)
	return tmp.URL()
}

// Summary describes the active filters, e.g. `Search: "dress"` or
// "Brand: Acme", in key order.
func (c *Controller) Summary() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for _, k := range Keys {
		v, ok := c.values[k]
		if !ok {
			continue
		}
		if k == "search" {
			out = append(out, fmt.Sprintf("%s: %q", labels[k], v))
			continue
		}
		out = append(out, labels[k]+": "+v)
	}
	return out
}

// Chip is one active filter shown above the table.
type Chip struct {
	Key    string
	Label  string
	Remove string
}

// Chips returns the active filters with links removing each one.
func (c *Controller) Chips() []Chip {
	summary := c.Summary()
	chips := make([]Chip, 0, len(summary))
	i := 0
	for _, k := range Keys {
		if c.Get(k) == "" {
			continue
		}
		chips = append(chips, Chip{Key: k, Label: summary[i], Remove: c.URLWithout(k)})
		i++
	}
	return chips
}

// Result is the outcome of applying the filters.
type Result struct {
	// URL is the page to navigate to in Navigate mode.
	URL string
	// Items are the matching items in Search mode.
	Items []model.Item
}

// Apply applies the current filters according to the mode.
func (c *Controller) Apply(ctx context.Context) (Result, error) {
	if c.mode == Navigate {
		return Result{URL: c.URL()}, nil
	}

	items, err := c.api.Search(ctx, c.Values())
	if err != nil {
		return Result{}, fmt.Errorf("searching inventory: %w", err)
	}
	return Result{Items: items}, nil
}

// LoadOptions returns the dropdown options from the API. When that fails
// they are derived from fallback, the items already on the page, except
// brands, which come from the brands endpoint if it answers.
func (c *Controller) LoadOptions(ctx context.Context, fallback []model.Item) model.FilterOptions {
	opts, err := c.api.FilterOptions(ctx)
	if err == nil && opts != nil {
		if len(opts.Statuses) == 0 {
			opts.Statuses = slices.Clone(model.ListingStatuses)
		}
		return *opts
	}
	slog.Warn("filter options unavailable, deriving from items", "error", err)
	out := OptionsFromItems(fallback)
	if brands, err := c.api.Brands(ctx); err != nil {
		slog.Warn("brands unavailable", "error", err)
	} else if len(brands) > 0 {
		out.Brands = brands
	}
	return out
}

// OptionsFromItems derives dropdown options from items.
func OptionsFromItems(items []model.Item) model.FilterOptions {
	return model.FilterOptions{
		Categories: distinct(items, func(it model.Item) string { return it.Category }),
		Conditions: distinct(items, func(it model.Item) string { return it.Condition }),
		Brands:     distinct(items, func(it model.Item) string { return it.Brand }),
		Statuses:   slices.Clone(model.ListingStatuses),
		Drops:      distinct(items, func(it model.Item) string { return it.CollectionDrop }),
	}
}

func distinct(items []model.Item, field func(model.Item) string) []string {
	out := []string{}
	for _, it := range items {
		if v := field(it); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

func encode(values map[string]string) string {
	var b strings.Builder
	for _, k := range Keys {
		v, ok := values[k]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
