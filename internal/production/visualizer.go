// Package production provides integrations for running machines outside of
// tests: Graphviz and JSON export, and step publishing.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/tickfsm/internal/primitives"
)

// DefaultVisualizer renders a MachineConfig as Graphviz DOT or JSON.
type DefaultVisualizer struct{}

// Edge represents a transition edge.
type Edge struct {
	From     string
	To       string
	Priority int
	Label    string
	Timed    bool
}

// ExportDOT generates Graphviz DOT source for the machine. Edges are labeled
// with their priority within the source state and their trigger; timed edges
// are dashed. current, if non-empty, is highlighted.
func (v *DefaultVisualizer) ExportDOT(config primitives.MachineConfig, current string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", graphName(config))
	buf.WriteString(`  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)
	buf.WriteString("  \"__start\" [shape=point];\n")
	fmt.Fprintf(&buf, "  \"__start\" -> %q;\n", config.Initial)

	for _, state := range config.States {
		if state == nil {
			continue
		}
		renderState(&buf, state, state.ID == current)
	}

	for _, edge := range CollectEdges(config) {
		style := ""
		if edge.Timed {
			style = " style=dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q%s];\n", edge.From, edge.To, edge.Label, style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the machine config to JSON.
func (v *DefaultVisualizer) ExportJSON(config primitives.MachineConfig) ([]byte, error) {
	return json.MarshalIndent(config, "", "  ")
}

// CollectEdges lists every transition in declaration order.
func CollectEdges(config primitives.MachineConfig) []Edge {
	var edges []Edge
	for _, state := range config.States {
		if state == nil {
			continue
		}
		for i, tr := range state.Transitions {
			edges = append(edges, Edge{
				From:     state.ID,
				To:       tr.Target,
				Priority: i + 1,
				Label:    fmt.Sprintf("%d: %s", i+1, tr.Label()),
				Timed:    tr.Timed(),
			})
		}
	}
	return edges
}

func graphName(config primitives.MachineConfig) string {
	if config.ID == "" {
		return "machine"
	}
	return config.ID
}

func renderState(buf *bytes.Buffer, state *primitives.StateConfig, active bool) {
	label := state.ID
	if state.Action != "" {
		label += "\n" + string(state.Action)
	}
	style := ""
	if active {
		style = ` style="rounded,filled" fillcolor=lightgreen`
	}
	fmt.Fprintf(buf, "  %q [label=%q%s];\n", state.ID, label, style)
}
