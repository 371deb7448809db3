package cpg

import "sync"

// DiffGraph collects tag additions while a pass is running. Nothing touches the
// graph until Apply is called, so concurrent workers only ever read it.
type DiffGraph struct {
	mu   sync.Mutex
	tags map[int][]Tag
}

// NewDiffGraph creates an empty changeset.
func NewDiffGraph() *DiffGraph {
	return &DiffGraph{tags: make(map[int][]Tag)}
}

// AddTags records tags for the import call with the given ID.
func (d *DiffGraph) AddTags(callID int, tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tags[callID] = append(d.tags[callID], tags...)
}

// Len returns the number of calls with pending tags.
func (d *DiffGraph) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tags)
}

// Apply attaches the collected tags to the graph and returns the number of
// calls that were updated. Tags already present on a call are not duplicated.
func (d *DiffGraph) Apply(g *Graph) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	updated := 0
	for _, call := range g.ImportCalls() {
		pending, ok := d.tags[call.ID]
		if !ok {
			continue
		}
		seen := make(map[Tag]bool, len(call.Tags))
		for _, t := range call.Tags {
			seen[t] = true
		}
		for _, t := range pending {
			if seen[t] {
				continue
			}
			seen[t] = true
			call.Tags = append(call.Tags, t)
		}
		updated++
	}
	d.tags = make(map[int][]Tag)
	return updated
}
