package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Nixie-Tech-LLC/venues/internal/model"
	"github.com/Nixie-Tech-LLC/venues/internal/storage"
)

type funcSource func(ctx context.Context) ([]model.Venue, error)

func (f funcSource) Fetch(ctx context.Context) ([]model.Venue, error) { return f(ctx) }

func staticSource(venues ...model.Venue) Source {
	return funcSource(func(context.Context) ([]model.Venue, error) { return venues, nil })
}

func TestCatalogIndex(t *testing.T) {
	c := New([]model.Venue{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 1, Name: "c"}}, time.Now())

	assert.Equal(t, 3, c.Len())
	v, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "c", v.Name)

	_, err := c.Lookup(42)
	assert.ErrorIs(t, err, ErrNotFound)

	list := c.List()
	list[0].Name = "mutated"
	first, _ := c.Get(2)
	assert.Equal(t, "b", first.Name)
	assert.Equal(t, "a", c.List()[0].Name)

	assert.NotEmpty(t, c.ETag())
	assert.Equal(t, c.ETag(), New(c.List(), time.Time{}).ETag())
	assert.NotEqual(t, c.ETag(), Empty().ETag())
}

func TestLoadMalformedYieldsEmptyCatalog(t *testing.T) {
	st := storage.NewFSStorage(fstest.MapFS{"venues.json": {Data: []byte(`[{"id": 1, "name": `)}})
	l := NewLoader(NewJSONSource(st, "venues.json"))

	c := l.Load(context.Background())
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.LoadedAt().IsZero())
}

func TestLoadMissingDocumentYieldsEmptyCatalog(t *testing.T) {
	st := storage.NewFSStorage(fstest.MapFS{})
	l := NewLoader(NewJSONSource(st, "venues.json"))

	c := l.Load(context.Background())
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestJSONSource(t *testing.T) {
	st := storage.NewFSStorage(fstest.MapFS{"venues.json": {Data: []byte(`[{"id": 5, "name": "Balboa"}]`)}})
	venues, err := NewJSONSource(st, "venues.json").Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, "Balboa", venues[0].Name)
}

func TestLoaderStartDeliversCatalog(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := NewLoader(staticSource(model.Venue{ID: 1, Name: "Petco Park"}))
	assert.Equal(t, 0, l.Current().Len())

	var mu sync.Mutex
	var delivered []*Catalog
	l.Subscribe(func(c *Catalog) {
		mu.Lock()
		delivered = append(delivered, c)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	l.Start(ctx)
	require.NoError(t, l.Wait(ctx))
	l.Stop()

	v, ok := l.Current().Get(1)
	require.True(t, ok)
	assert.Equal(t, "Petco Park", v.Name)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
	assert.Same(t, l.Current(), delivered[0])
}

func TestReloadCancelsLoadInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{}, 1)
	var mu sync.Mutex
	calls := 0
	src := funcSource(func(ctx context.Context) ([]model.Venue, error) {
		mu.Lock()
		calls++
		call := calls
		mu.Unlock()

		if call == 1 {
			started <- struct{}{}
			<-ctx.Done()
			return []model.Venue{{ID: 1, Name: "stale"}}, nil
		}
		return []model.Venue{{ID: 2, Name: "fresh"}}, nil
	})

	l := NewLoader(src)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.Start(ctx)
	<-started
	l.Reload()
	require.NoError(t, l.Wait(ctx))
	l.Stop()

	_, stale := l.Current().Get(1)
	assert.False(t, stale)
	v, ok := l.Current().Get(2)
	require.True(t, ok)
	assert.Equal(t, "fresh", v.Name)
}

func TestStopCancelsBlockedLoad(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := funcSource(func(ctx context.Context) ([]model.Venue, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	l := NewLoader(src)
	l.Start(context.Background())
	l.Stop()

	assert.Equal(t, 0, l.Current().Len())
	l.Reload() // no-op once stopped

	waitCtx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(waitCtx), context.DeadlineExceeded)
}

func TestFailedReloadReplacesWithEmpty(t *testing.T) {
	defer goleak.VerifyNone(t)

	fail := false
	var mu sync.Mutex
	src := funcSource(func(context.Context) ([]model.Venue, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("disk on fire")
		}
		return []model.Venue{{ID: 1}}, nil
	})

	l := NewLoader(src)
	swapped := make(chan *Catalog, 2)
	l.Subscribe(func(c *Catalog) { swapped <- c })

	l.Start(context.Background())
	first := <-swapped
	assert.Equal(t, 1, first.Len())

	mu.Lock()
	fail = true
	mu.Unlock()
	l.Reload()
	second := <-swapped
	l.Stop()

	assert.Equal(t, 0, second.Len())
	assert.Equal(t, 0, l.Current().Len())
}

func TestBundledSourceThroughLoader(t *testing.T) {
	doc := `[{"id": 10, "name": "Spreckels", "schedule": []}]`
	st := storage.NewFSStorage(fstest.MapFS{"venues.json": {Data: []byte(doc)}})
	c := NewLoader(NewJSONSource(st, "venues.json")).Load(context.Background())

	v, ok := c.Get(10)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(v.Name, "Spreck"))
	assert.NotNil(t, v.Schedule)
	assert.Empty(t, v.Schedule)
}
