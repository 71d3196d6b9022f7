package listing

// Cuisine is a taxonomy record: a cuisine name with its hierarchical
// category levels, shallowest first (at most five).
type Cuisine struct {
	Name       string   `json:"name" yaml:"name"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Taxonomy indexes the cuisine hierarchy for inclusive filter matching.
type Taxonomy struct {
	cuisines   []Cuisine
	byName     map[string]int
	byCategory map[string][]string // category level value -> cuisine names carrying it
}

// NewTaxonomy builds a taxonomy from cuisine records.
func NewTaxonomy(cuisines []Cuisine) *Taxonomy {
	t := &Taxonomy{
		cuisines:   cuisines,
		byName:     make(map[string]int, len(cuisines)),
		byCategory: make(map[string][]string),
	}
	for i, c := range cuisines {
		t.byName[c.Name] = i
		for _, cat := range c.Categories {
			if cat == "" {
				continue
			}
			t.byCategory[cat] = append(t.byCategory[cat], c.Name)
		}
	}
	return t
}

// Cuisines returns the taxonomy's cuisine records.
func (t *Taxonomy) Cuisines() []Cuisine {
	return t.cuisines
}

// Len returns the number of cuisines in the taxonomy.
func (t *Taxonomy) Len() int {
	return len(t.cuisines)
}

// MatchSet returns the set of cuisine names matching the selected cuisine:
// every cuisine whose hierarchy shares at least one category level with the
// selection, plus the selection itself by exact name. An unknown selection
// matches by exact name only.
func (t *Taxonomy) MatchSet(selected string) map[string]struct{} {
	set := map[string]struct{}{selected: {}}

	idx, ok := t.byName[selected]
	if !ok {
		return set
	}
	for _, cat := range t.cuisines[idx].Categories {
		for _, name := range t.byCategory[cat] {
			set[name] = struct{}{}
		}
	}
	return set
}

// Matches reports whether any of the entry's cuisine tags fall in the match
// set for the selected cuisine.
func (t *Taxonomy) Matches(selected string, tags []string) bool {
	set := t.MatchSet(selected)
	for _, tag := range tags {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}
