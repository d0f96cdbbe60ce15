package feepanel

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Trailing-edge debounce delays. Selection clicks settle faster than
	// free-text discount typing, so discounts get a longer quiet window.
	DefaultSelectDelay   = 100 * time.Millisecond
	DefaultDiscountDelay = 300 * time.Millisecond

	DefaultCurrency = "UGX"
)

// Config carries the per-panel options decided when the panel is opened.
// Zero values fall back to the defaults above.
type Config struct {
	// Owner identifies who the panel belongs to, e.g. a student id.
	Owner           string
	DiscountEnabled bool
	Currency        string
	SelectDelay     time.Duration
	DiscountDelay   time.Duration
}

func (c Config) withDefaults() Config {
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	if c.SelectDelay <= 0 {
		c.SelectDelay = DefaultSelectDelay
	}
	if c.DiscountDelay <= 0 {
		c.DiscountDelay = DefaultDiscountDelay
	}
	return c
}

// SelectedItem is one row packaged for payment submission.
type SelectedItem struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Discount decimal.Decimal `json:"discount"`
}

// Session owns the registry of one open fee panel and keeps its rendered
// view consistent with it. Mutations apply to the registry immediately;
// only the recompute/render pass is debounced, trailing edge, with every
// new mutation cancelling the not-yet-fired timer. The last edit before a
// quiet period is the one the final view reflects.
type Session struct {
	mu         sync.Mutex
	cfg        Config
	registry   *Registry
	view       PanelView
	timer      *time.Timer
	generation uint64
	recomputes uint64
	closed     bool
}

// NewSession loads a registry from the fee snapshot and renders the
// initial view. A malformed snapshot fails the whole panel.
func NewSession(records []FeeRecord, cfg Config) (*Session, error) {
	registry, err := Load(records)
	if err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg.withDefaults(), registry: registry}
	s.mu.Lock()
	s.recomputeLocked()
	s.mu.Unlock()
	return s, nil
}

// ToggleFee flips one item's selection and schedules a recompute.
func (s *Session) ToggleFee(id string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.registry.SetSelected(id, selected)
	s.scheduleLocked(s.cfg.SelectDelay)
}

// EditDiscount stores one item's discount and schedules a recompute. The
// returned notice is non-nil when the value had to be clamped.
func (s *Session) EditDiscount(id, raw string) *DiscountClamped {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	notice := s.registry.SetDiscount(id, raw)
	s.scheduleLocked(s.cfg.DiscountDelay)
	return notice
}

// View flushes any pending recompute and returns the current rendered
// panel state, so a read right after a mutation is never stale.
func (s *Session) View() PanelView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
		s.generation++
		if !s.closed {
			s.recomputeLocked()
		}
	}
	return s.view
}

// SelectedItems returns the selected rows packaged for the payment
// submission collaborator. It reads the registry, not the debounced view,
// so it always reflects the latest mutations.
func (s *Session) SelectedItems() []SelectedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SelectedItem
	for _, item := range s.registry.Snapshot() {
		if item.Selected {
			out = append(out, SelectedItem{ID: item.ID, Amount: item.Amount, Discount: item.Discount})
		}
	}
	return out
}

// Close cancels any pending recompute and marks the session dead. A timer
// that already fired finds the session closed and does nothing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
	s.closed = true
}

// Closed reports whether the panel has been torn down.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// DiscountEnabled reports whether this panel renders a discount column.
func (s *Session) DiscountEnabled() bool {
	return s.cfg.DiscountEnabled
}

// Owner returns the id the panel was opened for.
func (s *Session) Owner() string {
	return s.cfg.Owner
}

// RecomputeCount returns how many full recompute passes have run,
// including the one at construction.
func (s *Session) RecomputeCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recomputes
}

// scheduleLocked arms the trailing-edge timer, superseding any pending
// one. The generation token keeps a stopped-but-already-fired timer from
// applying a stale recompute.
func (s *Session) scheduleLocked(delay time.Duration) {
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || gen != s.generation {
			return
		}
		s.timer = nil
		s.recomputeLocked()
	})
}

// recomputeLocked runs the full Compute + Render pass over the current
// registry state. Callers hold s.mu.
func (s *Session) recomputeLocked() {
	snapshot := s.registry.Snapshot()
	view := Render(Compute(snapshot), snapshot, s.cfg.Currency)
	view.DiscountEnabled = s.cfg.DiscountEnabled
	s.view = view
	s.recomputes++
}
