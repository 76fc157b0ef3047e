package ingest

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/japaniel/wikianki/pkg/dictionary"
)

// ResolverStats counts redirect bookkeeping outcomes.
type ResolverStats struct {
	// Redirects is the number of accepted redirect edges.
	Redirects int
	// Conflicting counts later edges for a source that already had one.
	Conflicting int
	// Resolved counts sources that received records from their target.
	Resolved int
	// Skipped counts sources that already had records or failed the filter.
	Skipped int
}

// Resolver groups records by headword in first-seen order and completes
// soft redirects once their target produces records.
//
// Edges are push-based: a redirect seen before its target waits in the
// target's pending set and fires when the target's first record arrives. A
// redirect whose target already has records resolves immediately.
type Resolver struct {
	accept func(string) bool

	groups  *linkedhashmap.Map // headword -> []dictionary.Record
	targets map[string]string  // source -> target
	pending map[string]*linkedhashset.Set
	aliases map[string]string // dump word -> record Front, when they differ

	stats ResolverStats
}

// NewResolver creates a resolver. accept filters redirect sources; nil
// accepts every non-empty headword.
func NewResolver(accept func(string) bool) *Resolver {
	return &Resolver{
		accept:  accept,
		groups:  linkedhashmap.New(),
		targets: make(map[string]string),
		pending: make(map[string]*linkedhashset.Set),
		aliases: make(map[string]string),
	}
}

// AddRedirect records source -> target. Only the first edge of a source is
// kept.
func (r *Resolver) AddRedirect(source, target string) {
	if source == "" || target == "" || source == target {
		return
	}
	if _, dup := r.targets[source]; dup {
		r.stats.Conflicting++
		return
	}
	r.targets[source] = target
	r.stats.Redirects++

	if recs := r.recordsOf(target); len(recs) > 0 {
		r.resolve(source, recs...)
		return
	}
	set, ok := r.pending[target]
	if !ok {
		set = linkedhashset.New()
		r.pending[target] = set
	}
	set.Add(source)
}

// AddRecord files rec under rec.Front. word is the headword as it appeared in
// the dump; sources waiting on either spelling are resolved with rec.
func (r *Resolver) AddRecord(word string, rec dictionary.Record) {
	r.put(rec.Front, append(r.Records(rec.Front), rec))
	if word != "" && word != rec.Front {
		if _, ok := r.aliases[word]; !ok {
			r.aliases[word] = rec.Front
		}
		r.fire(word, rec)
	}
	r.fire(rec.Front, rec)
}

func (r *Resolver) fire(target string, rec dictionary.Record) {
	set, ok := r.pending[target]
	if !ok {
		return
	}
	delete(r.pending, target)
	for _, v := range set.Values() {
		r.resolve(v.(string), rec)
	}
}

// resolve gives source a copy of recs unless it already has records of its
// own or fails the filter.
func (r *Resolver) resolve(source string, recs ...dictionary.Record) {
	if len(r.Records(source)) > 0 || (r.accept != nil && !r.accept(source)) {
		r.stats.Skipped++
		return
	}
	clones := make([]dictionary.Record, len(recs))
	for i, rec := range recs {
		rec.Front = source
		clones[i] = rec
	}
	r.put(source, clones)
	r.stats.Resolved++
}

func (r *Resolver) put(headword string, recs []dictionary.Record) {
	r.groups.Put(headword, recs)
}

func (r *Resolver) recordsOf(target string) []dictionary.Record {
	if recs := r.Records(target); len(recs) > 0 {
		return recs
	}
	if front, ok := r.aliases[target]; ok {
		return r.Records(front)
	}
	return nil
}

// Records returns the records filed under headword.
func (r *Resolver) Records(headword string) []dictionary.Record {
	v, ok := r.groups.Get(headword)
	if !ok {
		return nil
	}
	return v.([]dictionary.Record)
}

// Len is the number of distinct headwords.
func (r *Resolver) Len() int { return r.groups.Size() }

// Each calls fn for every headword in first-seen order.
func (r *Resolver) Each(fn func(headword string, recs []dictionary.Record)) {
	it := r.groups.Iterator()
	for it.Next() {
		fn(it.Key().(string), it.Value().([]dictionary.Record))
	}
}

// Unresolved is the number of sources still waiting on a target.
func (r *Resolver) Unresolved() int {
	n := 0
	for _, set := range r.pending {
		n += set.Size()
	}
	return n
}

// Stats returns the redirect counters.
func (r *Resolver) Stats() ResolverStats { return r.stats }
