package listing

import (
	"fmt"
	"hash/fnv"
	"time"

	"tastr/internal/observability"

	gocache "github.com/patrickmn/go-cache"
)

// ResultCache memoizes engine applications keyed by a fingerprint of the
// entry set and the options. Re-filtering an unchanged list with unchanged
// options is the dominant cost on list pages, so identical applications are
// served from memory until the TTL expires or Flush is called after a write.
type ResultCache struct {
	engine *Engine
	store  *gocache.Cache
}

// NewResultCache wraps the engine with a TTL-bounded memo.
func NewResultCache(engine *Engine, ttl time.Duration) *ResultCache {
	return &ResultCache{
		engine: engine,
		store:  gocache.New(ttl, 2*ttl),
	}
}

// Apply returns the cached result for (entries, opts) or computes and stores it.
func (rc *ResultCache) Apply(entries []Entry, opts Options) []Entry {
	key := fingerprint(entries, opts)
	if cached, ok := rc.store.Get(key); ok {
		observability.ListingApplications.WithLabelValues("hit").Inc()
		return cached.([]Entry)
	}

	result := rc.engine.Apply(entries, opts)
	rc.store.Set(key, result, gocache.DefaultExpiration)
	observability.ListingApplications.WithLabelValues("miss").Inc()
	return result
}

// Flush drops every memoized result. Called after list writes.
func (rc *ResultCache) Flush() {
	rc.store.Flush()
}

// Len reports how many results are currently memoized.
func (rc *ResultCache) Len() int {
	return rc.store.ItemCount()
}

// fingerprint hashes the identity-bearing fields of the entry set and the
// options into a cache key.
func fingerprint(entries []Entry, opts Options) string {
	h := fnv.New64a()

	for _, e := range entries {
		fmt.Fprintf(h, "%d|%s|%v|%v|%v|%v|%v|%v;",
			e.RestaurantID, e.Name, e.Cuisines,
			floatKey(e.Latitude), floatKey(e.Longitude),
			floatKey(e.PersonalRating), floatKey(e.AverageRating),
			timeKey(e.VisitedAt)+timeKey(e.AddedAt))
	}

	fmt.Fprintf(h, "#%s|%v|%v|%d|%v|%v|%t|%s",
		opts.Cuisine, floatKey(opts.MaxDistanceKm), opts.Viewer,
		opts.MissingCoordinates, opts.Rating.Min, opts.Rating.Max,
		opts.IncludeNotRated, opts.Sort)

	return fmt.Sprintf("%x", h.Sum64())
}

func floatKey(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}

func timeKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%d", t.UnixNano())
}
