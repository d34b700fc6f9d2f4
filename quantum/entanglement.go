package quantum

import "sort"

// entangle adds the edge (a, b) to the entanglement graph and joins the state
// groups of a and b so that groups stay equal to the graph's components.
func (r *Register) entangle(a, b int) {
	r.addEdge(a, b)
	r.merge(a, b)
}

func (r *Register) addEdge(a, b int) {
	if r.edges[a] == nil {
		r.edges[a] = make(map[int]struct{})
	}
	if r.edges[b] == nil {
		r.edges[b] = make(map[int]struct{})
	}
	r.edges[a][b] = struct{}{}
	r.edges[b][a] = struct{}{}
}

func (r *Register) removeEdge(a, b int) {
	delete(r.edges[a], b)
	delete(r.edges[b], a)
	if len(r.edges[a]) == 0 {
		delete(r.edges, a)
	}
	if len(r.edges[b]) == 0 {
		delete(r.edges, b)
	}
}

// relabel exchanges the names a and b in the entanglement graph.
func (r *Register) relabel(a, b int) {
	swap := func(q int) int {
		switch q {
		case a:
			return b
		case b:
			return a
		}
		return q
	}
	var touched [][2]int
	for _, q := range []int{a, b} {
		for n := range r.edges[q] {
			touched = append(touched, [2]int{q, n})
		}
	}
	for _, e := range touched {
		r.removeEdge(e[0], e[1])
	}
	for _, e := range touched {
		r.addEdge(swap(e[0]), swap(e[1]))
	}
}

// EntangledQubits returns the entangled group of qubit, itself included, in
// ascending order. A qubit outside the register has no group.
func (r *Register) EntangledQubits(qubit int) []int {
	if qubit < 0 || qubit >= r.size {
		return nil
	}
	visited := map[int]bool{qubit: true}
	queue := []int{qubit}
	component := []int{}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		component = append(component, current)
		for n := range r.edges[current] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	sort.Ints(component)
	return component
}

// IsEntangled reports whether qubit shares its group with another qubit.
func (r *Register) IsEntangled(qubit int) bool {
	return len(r.edges[qubit]) > 0
}

// disentangle drops every edge among members.
func (r *Register) disentangle(members []int) {
	for _, a := range members {
		for _, b := range members {
			if a < b {
				r.removeEdge(a, b)
			}
		}
	}
}
