package domain

// FamilyTree anchors one document's graph at a single root member. Every other member
// is reached from the root through parent, spouse and child links.
type FamilyTree struct {
	root *Member
}

// NewFamilyTree returns an empty tree.
func NewFamilyTree() *FamilyTree { return &FamilyTree{} }

// SetRoot replaces the root unconditionally.
func (t *FamilyTree) SetRoot(m *Member) { t.root = m }

// HasRoot reports whether a root member is set.
func (t *FamilyTree) HasRoot() bool { return t.root != nil }

// Root returns the root member, or nil for an empty tree.
func (t *FamilyTree) Root() *Member { return t.root }

// Members returns every member reachable from the root in breadth-first order,
// visiting father, mother, spouse, then children of each member. The order is
// deterministic for a given graph.
func (t *FamilyTree) Members() []*Member {
	if t.root == nil {
		return nil
	}
	seen := map[*Member]struct{}{t.root: {}}
	out := []*Member{t.root}
	for i := 0; i < len(out); i++ {
		m := out[i]
		next := []*Member{m.father, m.mother, m.spouse}
		next = append(next, m.children...)
		for _, n := range next {
			if n == nil {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

// Find returns the reachable member with the given identifier.
func (t *FamilyTree) Find(id string) (*Member, bool) {
	for _, m := range t.Members() {
		if m.id == id {
			return m, true
		}
	}
	return nil, false
}
