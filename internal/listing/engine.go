package listing

import (
	"sort"
	"time"

	"tastr/internal/geo"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Engine applies filter and sort options to materialized list entries.
// Apply is a pure function: identical input and options always produce the
// identical output order, and re-applying a result is a no-op.
type Engine struct {
	taxonomy *Taxonomy
	collator *collate.Collator
}

// NewEngine creates an engine over the given cuisine taxonomy. The collator
// language drives name ordering.
func NewEngine(taxonomy *Taxonomy, lang language.Tag) *Engine {
	if taxonomy == nil {
		taxonomy = NewTaxonomy(nil)
	}
	return &Engine{
		taxonomy: taxonomy,
		collator: collate.New(lang),
	}
}

// Taxonomy returns the engine's cuisine taxonomy.
func (e *Engine) Taxonomy() *Taxonomy {
	return e.taxonomy
}

// Apply filters and sorts entries per opts and returns a new slice.
// The input slice is not modified.
func (e *Engine) Apply(entries []Entry, opts Options) []Entry {
	out := make([]Entry, 0, len(entries))

	cuisineActive := opts.Cuisine != "" && opts.Cuisine != CuisineAny
	var matchSet map[string]struct{}
	if cuisineActive {
		matchSet = e.taxonomy.MatchSet(opts.Cuisine)
	}

	distanceActive := opts.MaxDistanceKm != nil && opts.Viewer != nil
	ratingActive := !opts.Rating.IsFull()

	for _, entry := range entries {
		// Distance is derived whenever the viewer location is known so the
		// distance sort works even without a distance filter.
		if opts.Viewer != nil && entry.HasCoordinates() {
			d := geo.Haversine(*opts.Viewer, geo.Point{Latitude: *entry.Latitude, Longitude: *entry.Longitude})
			entry.DistanceKm = &d
		} else {
			entry.DistanceKm = nil
		}

		if cuisineActive && !intersects(matchSet, entry.Cuisines) {
			// Entries with no cuisine tags never match an active filter.
			continue
		}

		if distanceActive {
			if entry.DistanceKm == nil {
				if opts.MissingCoordinates == ExcludeMissingCoordinates {
					continue
				}
			} else if *entry.DistanceKm > *opts.MaxDistanceKm {
				continue
			}
		}

		if ratingActive {
			if entry.PersonalRating == nil {
				if !opts.IncludeNotRated {
					continue
				}
			} else if *entry.PersonalRating < opts.Rating.Min || *entry.PersonalRating > opts.Rating.Max {
				continue
			}
		}

		out = append(out, entry)
	}

	e.sortEntries(out, opts.Sort)
	return out
}

func intersects(set map[string]struct{}, tags []string) bool {
	for _, tag := range tags {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}

// sortEntries orders entries by the sort key. Stable sorting preserves input
// order across remaining ties, which makes the total order deterministic and
// the engine idempotent.
func (e *Engine) sortEntries(entries []Entry, key SortKey) {
	switch key {
	case SortRecentlyVisited:
		sort.SliceStable(entries, func(i, j int) bool {
			return cmpTimeDesc(entries[i].VisitedAt, entries[j].VisitedAt) < 0
		})
	case SortRecentlyAdded:
		sort.SliceStable(entries, func(i, j int) bool {
			return cmpTimeDesc(entries[i].AddedAt, entries[j].AddedAt) < 0
		})
	case SortRating:
		sort.SliceStable(entries, func(i, j int) bool {
			if c := cmpFloatDesc(entries[i].PersonalRating, entries[j].PersonalRating); c != 0 {
				return c < 0
			}
			return cmpFloatDesc(entries[i].AverageRating, entries[j].AverageRating) < 0
		})
	case SortPopularity:
		sort.SliceStable(entries, func(i, j int) bool {
			if c := cmpFloatDesc(entries[i].AverageRating, entries[j].AverageRating); c != 0 {
				return c < 0
			}
			return cmpFloatDesc(entries[i].PersonalRating, entries[j].PersonalRating) < 0
		})
	case SortDistance:
		sort.SliceStable(entries, func(i, j int) bool {
			return cmpFloatAsc(entries[i].DistanceKm, entries[j].DistanceKm) < 0
		})
	case SortName:
		sort.SliceStable(entries, func(i, j int) bool {
			return e.collator.CompareString(entries[i].Name, entries[j].Name) < 0
		})
	}
	// Unknown or empty key keeps input order.
}

// cmpFloatDesc orders descending with nil strictly last.
func cmpFloatDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}

// cmpFloatAsc orders ascending with nil strictly last.
func cmpFloatAsc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

// cmpTimeDesc orders newest first with nil strictly last.
func cmpTimeDesc(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.After(*b):
		return -1
	case a.Before(*b):
		return 1
	}
	return 0
}
