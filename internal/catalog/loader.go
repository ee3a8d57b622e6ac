package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Loader keeps the current catalog and refreshes it in the background.
// Only one load runs at a time; a reload cancels the load in flight and its
// result is discarded.
type Loader struct {
	source  Source
	current atomic.Pointer[Catalog]
	now     func() time.Time

	mu          sync.Mutex
	base        context.Context
	cancel      context.CancelFunc
	generation  uint64
	stopped     bool
	subscribers []func(*Catalog)
	wg          sync.WaitGroup

	firstOnce sync.Once
	first     chan struct{}
}

func NewLoader(source Source) *Loader {
	l := &Loader{
		source: source,
		now:    time.Now,
		first:  make(chan struct{}),
	}
	l.current.Store(Empty())
	return l
}

// Load fetches and indexes the venues once. Failures are logged and turn into
// an empty catalog; Load never returns nil.
func (l *Loader) Load(ctx context.Context) *Catalog {
	started := l.now()
	venues, err := l.source.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("[catalog] load failed, using empty catalog")
		return New(nil, l.now())
	}

	c := New(venues, l.now())
	log.Info().
		Int("venues", c.Len()).
		Str("etag", c.ETag()).
		Dur("took", l.now().Sub(started)).
		Msg("[catalog] loaded")
	return c
}

// Current returns the latest completed catalog.
func (l *Loader) Current() *Catalog {
	return l.current.Load()
}

// Subscribe registers fn to run after every catalog swap, on the loading goroutine.
func (l *Loader) Subscribe(fn func(*Catalog)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Start binds the loader to ctx and kicks off the first background load.
func (l *Loader) Start(ctx context.Context) {
	l.mu.Lock()
	l.base = ctx
	l.mu.Unlock()
	l.Reload()
}

// Reload cancels any load in flight and starts a new one.
func (l *Loader) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	if l.cancel != nil {
		l.cancel()
	}
	base := l.base
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	l.cancel = cancel
	l.generation++

	l.wg.Add(1)
	go l.run(ctx, l.generation)
}

func (l *Loader) run(ctx context.Context, generation uint64) {
	defer l.wg.Done()

	c := l.Load(ctx)
	if ctx.Err() != nil {
		log.Debug().Uint64("generation", generation).Msg("[catalog] load canceled, result dropped")
		return
	}

	l.mu.Lock()
	if generation != l.generation || l.stopped {
		l.mu.Unlock()
		return
	}
	l.current.Store(c)
	subscribers := make([]func(*Catalog), len(l.subscribers))
	copy(subscribers, l.subscribers)
	l.mu.Unlock()

	l.firstOnce.Do(func() { close(l.first) })
	for _, fn := range subscribers {
		fn(c)
	}
}

// Wait blocks until the first background load has been delivered.
func (l *Loader) Wait(ctx context.Context) error {
	select {
	case <-l.first:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels the load in flight and waits for the loading goroutine to exit.
func (l *Loader) Stop() {
	l.mu.Lock()
	l.stopped = true
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()
	l.wg.Wait()
}
