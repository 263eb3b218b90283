package dashboard

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
	xlogger "FxSignals/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reply struct {
	env *models.ResponseEnvelope
	err error
}

type scriptedFetcher struct {
	calls   chan struct{}
	replies chan reply
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{calls: make(chan struct{}, 16), replies: make(chan reply)}
}

func (f *scriptedFetcher) Fetch(ctx context.Context) (*models.ResponseEnvelope, error) {
	f.calls <- struct{}{}
	select {
	case r := <-f.replies:
		return r.env, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *scriptedFetcher) reply(t *testing.T, env *models.ResponseEnvelope, err error) {
	t.Helper()
	select {
	case f.replies <- reply{env, err}:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch was not waiting for a reply")
	}
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func envelope(records ...models.SignalRecord) *models.ResponseEnvelope {
	return &models.ResponseEnvelope{TimeZone: "UTC", GeneratedAt: "2024-05-01T16:15:00.000Z", Data: records}
}

// stepClock advances one minute per call.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func newRefresher(t *testing.T, f Fetcher, opts ...Option) *Refresher {
	t.Helper()
	loc := kolkata(t)
	clock := &stepClock{t: time.Date(2024, 5, 1, 16, 14, 3, 0, time.UTC)}
	base := []Option{WithInterval(5 * time.Millisecond), WithLocation(loc), WithClock(clock.now)}
	return NewRefresher(f, xlogger.Nop(), append(base, opts...)...)
}

func TestRefresherLifecycle(t *testing.T) {
	f := newScriptedFetcher()
	r := newRefresher(t, f)

	assert.Equal(t, PhaseIdle, r.Snapshot().Phase)
	require.NoError(t, r.Start(context.Background()))
	assert.ErrorIs(t, r.Start(context.Background()), ErrAlreadyStarted)

	// first cycle in flight
	waitFor(t, f.calls)
	s := r.Snapshot()
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.True(t, s.IsLoading)
	assert.True(t, s.IsRefreshing)
	assert.Empty(t, s.Signals)
	assert.Empty(t, s.LastFetchTime)

	f.reply(t, envelope(rec("EUR/USD", 80), rec("USD/JPY", 70)), nil)

	// second cycle in flight: first merge applied
	waitFor(t, f.calls)
	s = r.Snapshot()
	assert.Equal(t, PhaseRefreshing, s.Phase)
	assert.False(t, s.IsLoading)
	assert.True(t, s.IsRefreshing)
	assert.Equal(t, "1/5/2024, 9:45:03 pm", s.LastFetchTime)
	assert.Equal(t, []models.SignalRecord{rec("EUR/USD", 80), rec("USD/JPY", 70)}, s.Signals)

	f.reply(t, nil, errors.New("connection refused"))

	// failure keeps the view and the fetch time
	waitFor(t, f.calls)
	s = r.Snapshot()
	assert.Equal(t, "1/5/2024, 9:45:03 pm", s.LastFetchTime)
	assert.Len(t, s.Signals, 2)

	f.reply(t, envelope(rec("AUD/USD", 75), rec("USD/JPY", 80)), nil)

	waitFor(t, f.calls)
	s = r.Snapshot()
	assert.Equal(t, "1/5/2024, 9:46:03 pm", s.LastFetchTime)
	assert.Equal(t, []models.SignalRecord{rec("EUR/USD", 80), rec("USD/JPY", 80), rec("AUD/USD", 75)}, s.Signals)

	r.Stop()
	f.reply(t, envelope(rec("GBP/USD", 65)), nil)
	waitFor(t, r.Done())

	s = r.Snapshot()
	assert.Equal(t, PhaseReady, s.Phase)
	assert.False(t, s.IsRefreshing)
	assert.Len(t, s.Signals, 4, "in-flight cycle merges after Stop")
	assert.Empty(t, f.calls, "no cycle after Stop")
}

func TestRefresherFirstCycleFailure(t *testing.T) {
	f := newScriptedFetcher()
	r := newRefresher(t, f, WithInterval(time.Hour))

	require.NoError(t, r.Start(context.Background()))
	waitFor(t, f.calls)
	f.reply(t, nil, errors.New("503"))
	r.Stop()
	waitFor(t, r.Done())

	s := r.Snapshot()
	assert.False(t, s.IsLoading)
	assert.False(t, s.IsRefreshing)
	assert.Empty(t, s.LastFetchTime)
	assert.Empty(t, s.Signals)
}

func TestRefresherContextCancelAbortsInFlight(t *testing.T) {
	f := newScriptedFetcher()
	r := newRefresher(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, r.Start(ctx))
	waitFor(t, f.calls)
	cancel()
	waitFor(t, r.Done())

	s := r.Snapshot()
	assert.False(t, s.IsRefreshing)
	assert.Empty(t, s.Signals)
}

func TestRefresherOnChange(t *testing.T) {
	f := newScriptedFetcher()
	var (
		mu     sync.Mutex
		phases []Phase
	)
	r := newRefresher(t, f, WithInterval(time.Hour), WithOnChange(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, s.Phase)
	}))

	require.NoError(t, r.Start(context.Background()))
	waitFor(t, f.calls)
	f.reply(t, envelope(rec("EUR/USD", 80)), nil)
	r.Stop()
	waitFor(t, r.Done())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Phase{PhaseLoading, PhaseLoading, PhaseReady}, phases)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Snapshot{IsLoading: true, IsRefreshing: true}))
	assert.Equal(t, "Loading signals...\n", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, Snapshot{
		Phase:         PhaseReady,
		LastFetchTime: "1/5/2024, 9:45:03 pm",
		Location:      kolkata(t),
		Signals: []models.SignalRecord{
			{Pair: "EUR/USD", Signal: models.SignalCall, Confidence: 80, Reason: "SMA20 > SMA50", Time: "5/1/2024, 4:15:00 PM", TimeUTC: "2024-05-01 16:15:00"},
			{Pair: "NZD/USD", Signal: models.SignalNeutral, Time: "5/1/2024, 4:15:00 PM", TimeUTC: "not a time"},
		},
	}))
	out := buf.String()
	assert.Contains(t, out, "Last updated: 1/5/2024, 9:45:03 pm\n")
	assert.Contains(t, out, "PAIR")
	assert.Contains(t, out, "Call (Buy)")
	assert.Contains(t, out, "80%")
	assert.Regexp(t, `EUR/USD\s+Call \(Buy\)\s+80%\s+SMA20 > SMA50\s+1/5/2024, 9:45:00 pm`, out)
	assert.Regexp(t, `NZD/USD\s+Neutral\s+0%\s+-\s+5/1/2024, 4:15:00 PM`, out)

	buf.Reset()
	require.NoError(t, Render(&buf, Snapshot{Phase: PhaseReady}))
	assert.Equal(t, "No signals available.\n", buf.String())
}
