package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"FxSignals/internal/domain/models"
	domrepo "FxSignals/internal/domain/repository"
	xlogger "FxSignals/pkg/logger"
	"FxSignals/pkg/metrics"
	"FxSignals/pkg/util"

	"github.com/oklog/ulid/v2"
)

// Phase is the lifecycle state of a Refresher.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseReady      Phase = "ready"
	PhaseRefreshing Phase = "refreshing"
)

var ErrAlreadyStarted = errors.New("dashboard: refresher already started")

// Snapshot is an immutable copy of the client state handed to the display.
type Snapshot struct {
	Phase         Phase
	IsLoading     bool
	IsRefreshing  bool
	LastFetchTime string
	Signals       []models.SignalRecord

	// Location is the display zone shared by LastFetchTime and candle times.
	Location *time.Location
}

// Option configures Refresher.
type Option func(*Refresher)

// WithInterval sets the poll period.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) { r.interval = d }
}

// WithLocation sets the zone lastFetchTime is rendered in.
func WithLocation(loc *time.Location) Option {
	return func(r *Refresher) { r.loc = loc }
}

// ChangeFunc receives a snapshot after every state transition.
type ChangeFunc func(Snapshot)

// WithOnChange registers a callback fired after every state transition.
func WithOnChange(fn ChangeFunc) Option {
	return func(r *Refresher) { r.onChange = fn }
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(r *Refresher) { r.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(r *Refresher) { r.now = now }
}

// Refresher polls the signal endpoint and merges each batch into a SignalView.
// Cycles run one at a time on a single loop goroutine.
type Refresher struct {
	fetcher  Fetcher
	interval time.Duration
	loc      *time.Location
	onChange ChangeFunc
	metrics  domrepo.Metrics
	logger   *xlogger.Logger
	now      func() time.Time

	mu           sync.Mutex
	view         *SignalView
	phase        Phase
	isLoading    bool
	isRefreshing bool
	lastFetch    string
	started      bool

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewRefresher(f Fetcher, logger *xlogger.Logger, opts ...Option) *Refresher {
	r := &Refresher{
		fetcher:  f,
		interval: 30 * time.Second,
		loc:      time.UTC,
		metrics:  metrics.Nop{},
		logger:   logger,
		now:      time.Now,
		view:     NewSignalView(),
		phase:    PhaseIdle,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the first cycle immediately and then one per interval until
// Stop is called or ctx is cancelled. Cancelling ctx also aborts the
// in-flight request.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	r.phase = PhaseLoading
	r.isLoading = true
	r.mu.Unlock()
	r.notify()

	go r.loop(ctx)
	return nil
}

// Stop prevents further cycles. An in-flight cycle completes and its merge applies.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Done is closed once the loop has exited.
func (r *Refresher) Done() <-chan struct{} {
	return r.done
}

// Snapshot returns a copy of the current state.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Refresher) loop(ctx context.Context) {
	defer close(r.done)

	r.cycle(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			if r.stopped() || ctx.Err() != nil {
				return
			}
			r.cycle(ctx)
		}
	}
}

func (r *Refresher) cycle(ctx context.Context) {
	log := r.logger.With(xlogger.String("cycle_id", ulid.Make().String()))

	r.mu.Lock()
	r.isRefreshing = true
	if r.phase != PhaseLoading {
		r.phase = PhaseRefreshing
	}
	r.mu.Unlock()
	r.notify()

	start := time.Now()
	env, err := r.fetcher.Fetch(ctx)

	r.mu.Lock()
	if err == nil {
		r.view.Merge(env.Data)
		r.lastFetch = util.FormatIn(r.now(), r.loc, util.LayoutEnIN)
	}
	r.isRefreshing = false
	r.isLoading = false
	r.phase = PhaseReady
	pairs := r.view.Len()
	r.mu.Unlock()

	if err != nil {
		r.metrics.RecordPoll("error")
		log.Error("fetch signals failed", xlogger.Error(err), xlogger.Duration("duration_ms", time.Since(start)))
	} else {
		r.metrics.RecordPoll("ok")
		log.Info("signals refreshed",
			xlogger.Int("received", len(env.Data)),
			xlogger.Int("pairs", pairs),
			xlogger.Duration("duration_ms", time.Since(start)),
		)
	}
	r.notify()
}

func (r *Refresher) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

func (r *Refresher) notify() {
	if r.onChange == nil {
		return
	}
	r.onChange(r.Snapshot())
}

func (r *Refresher) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:         r.phase,
		IsLoading:     r.isLoading,
		IsRefreshing:  r.isRefreshing,
		LastFetchTime: r.lastFetch,
		Signals:       r.view.Records(),
		Location:      r.loc,
	}
}
