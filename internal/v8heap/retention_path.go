package v8heap

import "strconv"

// RetentionStep is one hop of a retention path (spec.md §6 output shape).
type RetentionStep struct {
	NodeName  string
	NodeType  string
	EdgeKind  string
	EdgeLabel string
}

// RetentionPathResult is one path (or the absence of one) for a target.
type RetentionPathResult struct {
	Steps       []RetentionStep
	Unreachable bool
}

// edgeLabel renders an edge's name_or_index: a literal index for element
// edges, the resolved string-table name otherwise.
func edgeLabel(g *CompactGraph, e int32) string {
	if g.EdgeKind(e) == EdgeElement {
		return strconv.Itoa(int(g.EdgeNameOrIndex(e)))
	}
	return g.strings.Get(int(g.EdgeNameOrIndex(e)))
}

// renderSteps converts a start-to-target node/edge chain (edges[i] is the
// edge from nodes[i] to nodes[i+1]) into the public step representation.
func renderSteps(g *CompactGraph, nodes, edges []int32) []RetentionStep {
	steps := make([]RetentionStep, len(nodes))
	for i, node := range nodes {
		step := RetentionStep{
			NodeName: g.Name(node),
			NodeType: g.Kind(node).String(),
		}
		if i > 0 {
			e := edges[i-1]
			step.EdgeKind = g.EdgeKind(e).String()
			step.EdgeLabel = edgeLabel(g, e)
		}
		steps[i] = step
	}
	return steps
}

// bfsParentChain walks the BFS parent pointers from target back to its
// starting (root-reachable) node and returns the chain in start-to-target
// order. Because BFS discovers each node via the first edge that reaches
// it, this is deterministically the lowest-root-edge-index path (spec.md
// §8 scenario 5's default-1 case).
func (f *RetentionFinder) bfsParentChain(target int32) (nodes, edges []int32) {
	var revNodes, revEdges []int32
	cur := target
	for f.parentNode[cur] != -1 {
		revNodes = append(revNodes, cur)
		revEdges = append(revEdges, f.parentEdge[cur])
		cur = f.parentNode[cur]
	}
	revNodes = append(revNodes, cur)

	n := len(revNodes)
	nodes = make([]int32, n)
	for i, v := range revNodes {
		nodes[n-1-i] = v
	}
	e := len(revEdges)
	edges = make([]int32, e)
	for i, v := range revEdges {
		edges[e-1-i] = v
	}
	return nodes, edges
}

// findPathExcluding performs a greedy backward walk from target toward a
// root-reachable starting node over the predecessor index, at each step
// taking the smallest-edge-index candidate on the shortest-path DAG
// (dist[src] == dist[cur]-1) that is not in excluded. It gives up (ok =
// false) rather than backtracking if every candidate at some step is
// excluded; this is sufficient for the few-branch shapes this tool
// targets (spec.md §8 scenario 5: a handful of distinct root entries).
func (f *RetentionFinder) findPathExcluding(target int32, excluded map[int32]bool) (nodes, edges []int32, ok bool) {
	var revNodes, revEdges []int32
	cur := target
	for f.dist[cur] != 0 {
		var chosenSrc, chosenEdge int32 = -1, -1
		f.pred.predecessorsOf(cur, func(src, edge int32) bool {
			if f.dist[src] != f.dist[cur]-1 {
				return true
			}
			if excluded[src] {
				return true
			}
			chosenSrc, chosenEdge = src, edge
			return false
		})
		if chosenSrc == -1 {
			return nil, nil, false
		}
		revNodes = append(revNodes, cur)
		revEdges = append(revEdges, chosenEdge)
		cur = chosenSrc
	}
	revNodes = append(revNodes, cur)

	n := len(revNodes)
	nodes = make([]int32, n)
	for i, v := range revNodes {
		nodes[n-1-i] = v
	}
	e := len(revEdges)
	edges = make([]int32, e)
	for i, v := range revEdges {
		edges[e-1-i] = v
	}
	return nodes, edges, true
}

// FindPaths returns up to maxPaths shortest, distinct retention paths to
// target. The first is always the BFS parent-chain path. Additional
// paths exclude every node used by earlier accepted paths, so repeated
// queries surface distinct root entries rather than trivial re-routings
// through the same nodes (spec.md §8 scenario 5).
func (f *RetentionFinder) FindPaths(target int32, maxPaths int) []RetentionPathResult {
	f.ensureBFS()
	if maxPaths < 1 {
		maxPaths = 1
	}
	if !f.Reachable(target) {
		return []RetentionPathResult{{Unreachable: true}}
	}

	firstNodes, firstEdges := f.bfsParentChain(target)
	results := []RetentionPathResult{{Steps: renderSteps(f.g, firstNodes, firstEdges)}}
	if maxPaths == 1 {
		return results
	}

	excluded := make(map[int32]bool, len(firstNodes))
	for _, n := range firstNodes {
		excluded[n] = true
	}

	for len(results) < maxPaths {
		nodes, edges, ok := f.findPathExcluding(target, excluded)
		if !ok {
			break
		}
		results = append(results, RetentionPathResult{Steps: renderSteps(f.g, nodes, edges)})
		for _, n := range nodes {
			excluded[n] = true
		}
	}
	return results
}
