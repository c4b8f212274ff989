package dag

// TopoSort returns a stable topological ordering of the graph: every
// producer precedes its consumers, and nodes with no dependency relationship
// keep their insertion order. The second return value lists the nodes that
// could not be ordered because they sit on, or downstream of, a dependency
// cycle; it is empty for an acyclic graph. Both slices are in insertion
// order relative to their members.
func (g *Graph) TopoSort() (ordered []string, blocked []string) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	indegree := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		indegree[id] = len(n.deps)
	}

	emitted := make(map[string]bool, len(g.nodes))
	ordered = make([]string, 0, len(g.nodes))

	// Kahn's algorithm. The ready set is re-scanned in insertion order on
	// every pick, which keeps the sort stable. Batches are small, so the
	// quadratic scan is not a concern.
	for len(ordered) < len(g.nodes) {
		picked := ""
		for _, id := range g.order {
			if !emitted[id] && indegree[id] == 0 {
				picked = id
				break
			}
		}
		if picked == "" {
			// Every remaining node still has unmet dependencies: the rest
			// of the graph is cyclic or depends on a cycle.
			break
		}

		emitted[picked] = true
		ordered = append(ordered, picked)
		for depID := range g.nodes[picked].dependents {
			indegree[depID]--
		}
	}

	for _, id := range g.order {
		if !emitted[id] {
			blocked = append(blocked, id)
		}
	}
	return ordered, blocked
}

// CycleMembers returns, in insertion order, the ids of every node that lies
// on a dependency cycle. Nodes that are merely downstream of a cycle are not
// members. It returns nil for an acyclic graph.
func (g *Graph) CycleMembers() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Tarjan's strongly connected components over the dependency edges.
	// Self-edges are rejected at AddEdge time, so any SCC larger than one
	// node is a cycle.
	index := 0
	indices := make(map[string]int, len(g.nodes))
	lowlink := make(map[string]int, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))
	var stack []string
	members := make(map[string]bool)

	var strongconnect func(n *node)
	strongconnect = func(n *node) {
		indices[n.id] = index
		lowlink[n.id] = index
		index++
		stack = append(stack, n.id)
		onStack[n.id] = true

		for _, dep := range n.deps {
			if _, seen := indices[dep.id]; !seen {
				strongconnect(dep)
				if lowlink[dep.id] < lowlink[n.id] {
					lowlink[n.id] = lowlink[dep.id]
				}
			} else if onStack[dep.id] {
				if indices[dep.id] < lowlink[n.id] {
					lowlink[n.id] = indices[dep.id]
				}
			}
		}

		if lowlink[n.id] == indices[n.id] {
			var scc []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				scc = append(scc, top)
				if top == n.id {
					break
				}
			}
			if len(scc) > 1 {
				for _, id := range scc {
					members[id] = true
				}
			}
		}
	}

	for _, id := range g.order {
		if _, seen := indices[id]; !seen {
			strongconnect(g.nodes[id])
		}
	}

	if len(members) == 0 {
		return nil
	}
	out := make([]string, 0, len(members))
	for _, id := range g.order {
		if members[id] {
			out = append(out, id)
		}
	}
	return out
}
