package core

// disjointSet is a union-find over node indices.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
}

// Components labels the connected components of the structure once the
// bonds flagged in removed are taken out. removed is indexed by bond
// identifier and may be nil. Labels are dense, numbered in order of each
// component's lowest node.
func (s *Structure) Components(removed []bool) (labels []int, count int) {
	d := newDisjointSet(len(s.nodes))
	for _, b := range s.bonds {
		if removed != nil && removed[b.ID] {
			continue
		}
		d.union(b.Donor, b.Acceptor)
	}

	labels = make([]int, len(s.nodes))
	byRoot := make(map[int]int)
	for n := range s.nodes {
		root := d.find(n)
		label, ok := byRoot[root]
		if !ok {
			label = count
			byRoot[root] = label
			count++
		}
		labels[n] = label
	}
	return labels, count
}
