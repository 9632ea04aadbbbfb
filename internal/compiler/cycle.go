package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/proof/internal/ir"
)

// CycleWarning represents recursion between rules.
//
// Recursion is a warning, not an error: transitive rules such as
// subClassOf chaining are recursive by nature. It matters because a
// recursive rule can support a fact through the fact itself, which the
// explanation engine then has to discard.
type CycleWarning struct {
	Path    []string `json:"path"`    // Cycle path: ["rule-a", "rule-b", "rule-a"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// AnalyzeCycles performs static recursion analysis on rules.
//
// Rule A feeds rule B when some conclusion of A could match some premise of
// B, position by position: two constants must be equal, a variable matches
// anything. The algorithm:
//  1. Build the rule → rule dependency graph
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or self-loops as a cycle warning
//
// Rules without recursion return an empty warning list. Warnings come out
// in a stable order.
func AnalyzeCycles(rules []ir.RuleSpec) []CycleWarning {
	if len(rules) == 0 {
		return []CycleWarning{}
	}

	graph := buildDependencyGraph(rules)
	sccs := tarjanSCC(graph)

	warnings := []CycleWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}

	sort.Slice(warnings, func(i, j int) bool {
		return strings.Join(warnings[i].Path, "\x00") < strings.Join(warnings[j].Path, "\x00")
	})
	return warnings
}

// dependencyGraph maps rule name → rules its conclusions can feed.
type dependencyGraph map[string][]string

// buildDependencyGraph constructs the rule dependency graph. Edges keep
// rule declaration order.
func buildDependencyGraph(rules []ir.RuleSpec) dependencyGraph {
	graph := make(dependencyGraph, len(rules))
	for _, from := range rules {
		if graph[from.Name] == nil {
			graph[from.Name] = []string{}
		}
		for _, to := range rules {
			if feeds(from, to) {
				graph[from.Name] = append(graph[from.Name], to.Name)
			}
		}
	}
	return graph
}

// feeds reports whether a conclusion of from could match a premise of to.
func feeds(from, to ir.RuleSpec) bool {
	for _, c := range from.Conclusions {
		for _, p := range to.Premises {
			if compatible(c, p) {
				return true
			}
		}
	}
	return false
}

func compatible(a, b ir.PatternSpec) bool {
	pa, pb := a.Positions(), b.Positions()
	for i := range pa {
		if ir.IsVariable(pa[i]) || ir.IsVariable(pb[i]) {
			continue
		}
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, graph dependencyGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Returns a list of SCCs, where each SCC is a list of rule names.
// Single-node SCCs without self-loops are NOT cycles. Nodes are visited in
// sorted order so the result does not depend on map iteration.
func tarjanSCC(graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// Root node: pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// cycleSCCToWarning converts an SCC to a CycleWarning.
//
// For self-loops, the path is [rule, rule]. For multi-node cycles, the path
// shows a cycle traversal starting at the smallest rule name.
func cycleSCCToWarning(scc []string, graph dependencyGraph) CycleWarning {
	if len(scc) == 1 {
		name := scc[0]
		return CycleWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("Recursive rule: %s → %s", name, name),
			Level:   "info",
		}
	}

	sorted := append([]string(nil), scc...)
	sort.Strings(sorted)
	path := reconstructCyclePath(sorted, graph)

	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Mutually recursive rules: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Strategy: start at the first node, follow edges to other SCC members,
// continue until we return to the start node.
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if neighbor == current {
				continue
			}
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
