package evaluation

import "sort"

// Stats summarizes what a Registry did with the records it was given.
type Stats struct {
	Records          int
	Created          int
	Merged           int
	CrosslistRepeats int
	Siblings         int
	Dropped          map[Reason]int
}

// DroppedTotal is the number of invalid records.
func (s Stats) DroppedTotal() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// IngestResult reports the effect of one Registry.Ingest call.
type IngestResult struct {
	Reason  Reason // ReasonNone unless the record was dropped
	Created bool   // a new accumulator was appended
	Updated int    // accumulators that absorbed the record
}

// Registry is the ordered collection of sections seen in one file.
//
// sections is authoritative and in creation order. The department, number
// and crosslist indexes only narrow which sections a record is offered to;
// a record that matches none of them matches no section.
type Registry struct {
	sections []*Accumulator

	byDept   map[string][]int
	byNumber map[int][]int
	byTag    map[string][]int

	stats Stats
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byDept:   make(map[string][]int),
		byNumber: make(map[int][]int),
		byTag:    make(map[string][]int),
		stats:    Stats{Dropped: make(map[Reason]int)},
	}
}

// Ingest offers r to every section teaching the same course, then starts a
// new section if r is valid and no existing section contains it. The new
// section inherits the section list of the first course match.
func (g *Registry) Ingest(r Record) IngestResult {
	g.stats.Records++

	var res IngestResult
	var seed []string
	seeded := false

	for _, i := range g.candidates(r) {
		a := g.sections[i]
		hadDept, hadNumber := a.HasDepartment(r.Department), a.HasNumber(r.Number)

		switch a.Ingest(r) {
		case OutcomeMerged:
			g.stats.Merged++
			res.Updated++
		case OutcomeCrosslistRepeat:
			g.stats.CrosslistRepeats++
			res.Updated++
		case OutcomeSibling:
			g.stats.Siblings++
			res.Updated++
		}

		if !hadDept && a.HasDepartment(r.Department) {
			g.byDept[r.Department] = append(g.byDept[r.Department], i)
		}
		if !hadNumber && a.HasNumber(r.Number) {
			g.byNumber[r.Number] = append(g.byNumber[r.Number], i)
		}

		if !seeded && a.MatchesCourse(r) {
			seed = a.SectionIDs()
			seeded = true
		}
	}

	if res.Reason = r.Validity(); res.Reason != ReasonNone {
		g.stats.Dropped[res.Reason]++
		return res
	}

	if g.contains(r) {
		return res
	}

	g.add(NewAccumulator(r, seed))
	g.stats.Created++
	res.Created = true
	return res
}

// Contains reports whether any section contains r.
func (g *Registry) Contains(r Record) bool {
	return g.contains(r)
}

func (g *Registry) contains(r Record) bool {
	for _, i := range g.byDept[r.Department] {
		if g.sections[i].Contains(r) {
			return true
		}
	}
	return false
}

func (g *Registry) add(a *Accumulator) {
	i := len(g.sections)
	g.sections = append(g.sections, a)

	for _, d := range a.Departments() {
		g.byDept[d] = append(g.byDept[d], i)
	}
	for _, n := range a.Numbers() {
		g.byNumber[n] = append(g.byNumber[n], i)
	}
	if a.crosslist != "" {
		g.byTag[a.crosslist] = append(g.byTag[a.crosslist], i)
	}
}

// candidates returns, in creation order, the sections that could match r's
// course: those holding both its department and number, plus those sharing
// its crosslist tag.
func (g *Registry) candidates(r Record) []int {
	seen := make(map[int]struct{})

	numbers := make(map[int]struct{}, len(g.byNumber[r.Number]))
	for _, i := range g.byNumber[r.Number] {
		numbers[i] = struct{}{}
	}
	for _, i := range g.byDept[r.Department] {
		if _, ok := numbers[i]; ok {
			seen[i] = struct{}{}
		}
	}
	if r.Crosslist != "" {
		for _, i := range g.byTag[r.Crosslist] {
			seen[i] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Sections returns the accumulators in creation order.
func (g *Registry) Sections() []*Accumulator {
	return append([]*Accumulator(nil), g.sections...)
}

// Len returns the number of sections.
func (g *Registry) Len() int {
	return len(g.sections)
}

// Stats returns a copy of the ingest counters.
func (g *Registry) Stats() Stats {
	s := g.stats
	s.Dropped = make(map[Reason]int, len(g.stats.Dropped))
	for k, v := range g.stats.Dropped {
		s.Dropped[k] = v
	}
	return s
}
