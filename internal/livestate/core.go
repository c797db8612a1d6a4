package livestate

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/arena-sync/internal/event"
	"github.com/park285/arena-sync/internal/feed"
	"github.com/park285/arena-sync/internal/obslog"
	"github.com/park285/arena-sync/internal/roster"
	"github.com/park285/arena-sync/pkg/viewdto"
)

// inbound is one decoded event stamped with its arrival time. The stamp
// is taken at the transport boundary so rate limiting measures arrival,
// not queue latency.
type inbound struct {
	ev event.Event
	at time.Time
}

// Core wires the store, projector and rate limiter to a Feed. All
// events are handled to completion on a single loop goroutine; feed
// callbacks only decode and enqueue.
type Core struct {
	feed    feed.Feed
	store   *Store
	proj    *Projector
	limiter *RateLimiter

	events chan inbound
	quit   chan struct{}
	done   chan struct{}

	subsMu  sync.Mutex
	subs    []feed.Subscription
	started bool

	closeOnce sync.Once

	runMu   sync.RWMutex
	running bool
	paused  bool
}

const eventQueueSize = 1024

func NewCore(f feed.Feed, r *roster.Roster, statsMinInterval time.Duration) *Core {
	store := NewStore(r)
	return &Core{
		feed:    f,
		store:   store,
		proj:    NewProjector(store),
		limiter: NewRateLimiter(statsMinInterval),
		events:  make(chan inbound, eventQueueSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start subscribes every inbound topic and starts the event loop. On
// partial subscription failure every already-acquired subscription is
// released before the error returns.
func (c *Core) Start() error {
	var subs []feed.Subscription
	for _, topic := range event.Topics {
		sub, err := c.feed.Subscribe(topic, c.onPayload)
		if err != nil {
			for _, s := range subs {
				_ = s.Close()
			}
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		subs = append(subs, sub)
	}
	c.subsMu.Lock()
	c.subs = subs
	c.started = true
	c.subsMu.Unlock()

	go c.loop()
	return nil
}

// Close releases all topic subscriptions and stops the loop. Idempotent;
// once it returns no event is processed anymore.
func (c *Core) Close() error {
	c.closeOnce.Do(func() {
		c.subsMu.Lock()
		subs := c.subs
		started := c.started
		c.subs = nil
		c.subsMu.Unlock()
		for _, s := range subs {
			_ = s.Close()
		}
		close(c.quit)
		if started {
			<-c.done
		}
	})
	return nil
}

// onPayload is the feed handler: decode at the boundary, drop malformed
// input fail-closed, enqueue the rest.
func (c *Core) onPayload(topic string, payload []byte) {
	ev, err := event.Decode(topic, payload)
	if err != nil {
		obslog.L().Warn("event_rejected", zap.String("topic", topic), zap.Error(err))
		return
	}
	select {
	case c.events <- inbound{ev: ev, at: time.Now()}:
	default:
		// Queue full: shed rather than block the transport.
		obslog.L().Warn("event_queue_full", zap.String("topic", topic))
	}
}

func (c *Core) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.quit:
			return
		case in := <-c.events:
			c.handle(in)
		}
	}
}

func (c *Core) handle(in inbound) {
	switch ev := in.ev.(type) {
	case event.GameUpdate:
		c.store.ApplyGameUpdate(ev)
		c.proj.OnUpdate(ev.GameID)
	case event.EngineStats:
		if !c.limiter.Admit(event.TopicEngineStats, in.at) {
			return
		}
		id, ok := c.proj.Observed()
		c.store.ApplyEngineStats(ev, id, ok)
	case event.TournamentStats:
		c.store.ApplyStandings(ev)
	case event.ScheduleUpdate:
		c.store.ApplySchedule(ev)
	case event.Toast:
		c.store.ApplyToast(ev, in.at)
		obslog.L().Info("backend_toast",
			zap.String("engine", ev.EngineName),
			zap.String("message", ev.Message),
			zap.Bool("disabled", ev.Disabled),
		)
	}
}

// Select switches the observed game.
func (c *Core) Select(gameID int) { c.proj.Select(gameID) }

// Observed returns the currently observed game id, if any.
func (c *Core) Observed() (int, bool) { return c.proj.Observed() }

// SetMatchRunning records whether a run is in progress; used by the
// clock model only.
func (c *Core) SetMatchRunning(running bool) {
	c.runMu.Lock()
	c.running = running
	c.runMu.Unlock()
}

// SetPaused records the host's pause toggle.
func (c *Core) SetPaused(paused bool) {
	c.runMu.Lock()
	c.paused = paused
	c.runMu.Unlock()
}

// ResetRun clears all per-run state when a new match/tournament begins.
// The error sink survives; see Store.Reset.
func (c *Core) ResetRun() {
	c.store.Reset()
	c.proj.Reset()
	c.limiter.Reset()
}

// Project returns the view model of the observed game, or nil while no
// observed game has state.
func (c *Core) Project() *viewdto.GameView {
	c.runMu.RLock()
	running, paused := c.running, c.paused
	c.runMu.RUnlock()
	return c.proj.Project(running, paused)
}

// Store exposes read access for schedule/standings/errors panels.
func (c *Core) Store() *Store { return c.store }
