package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/mbt/pkg/domain"
	"github.com/aretw0/mbt/pkg/machine"
)

// GraphOverlay contains generation progress to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	VisitedEdges  []string // transition IDs
	CurrentState  string
}

// OverlayFrom builds an overlay from the coverage of a machine.
func OverlayFrom(m machine.Machine) *GraphOverlay {
	cov := m.Coverage()
	model := m.Model()
	overlay := &GraphOverlay{}
	for _, s := range model.States {
		if cov.StateVisits(s) > 0 {
			overlay.VisitedStates = append(overlay.VisitedStates, s.ID)
		}
	}
	for _, t := range model.Transitions {
		if cov.EdgeVisits(t) > 0 {
			overlay.VisitedEdges = append(overlay.VisitedEdges, t.ID)
		}
	}
	if cur := m.CurrentState(); cur != nil {
		overlay.CurrentState = cur.ID
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of a model.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Dead end (no outgoing transition): ([Stadium])
// - Default: [Rectangle]
// Guarded transitions are dotted and labelled "label [guard] / action".
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(model *domain.Model, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	outgoing := make(map[*domain.State]int)
	for _, t := range model.Transitions {
		outgoing[t.Source]++
	}

	for _, s := range model.States {
		opener, closer := "[", "]"
		switch {
		case s == model.Initial:
			opener, closer = "((", "))"
		case outgoing[s] == 0:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(s.ID), opener, escape(s.ID), closer)
	}

	linkIndex := make(map[string]int, len(model.Transitions))
	for i, t := range model.Transitions {
		linkIndex[t.ID] = i
		arrow := fmt.Sprintf("-- \"%s\" -->", escape(edgeLabel(t)))
		if t.HasGuard() {
			arrow = fmt.Sprintf("-. \"%s\" .->", escape(edgeLabel(t)))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(t.Source.ID), arrow, sanitizeMermaidID(t.Target.ID))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}

		var links []string
		for _, id := range overlay.VisitedEdges {
			if i, ok := linkIndex[id]; ok {
				links = append(links, fmt.Sprint(i))
			}
		}
		if len(links) > 0 {
			fmt.Fprintf(&sb, "    linkStyle %s stroke:#01579b,stroke-width:3px;\n", strings.Join(links, ","))
		}
	}

	return sb.String()
}

func edgeLabel(t *domain.Transition) string {
	label := t.Label
	if t.HasGuard() {
		label += " [" + t.Guard + "]"
	}
	if t.HasAction() {
		label += " / " + t.Action
	}
	return label
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
