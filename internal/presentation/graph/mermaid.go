package graph

import (
	"fmt"
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// GraphOverlay contains request data to visualize on the plan.
type GraphOverlay struct {
	Excluded []domain.NodeID
}

// GenerateMermaid produces a Mermaid flowchart of a binding report.
// Source bones sit in one subgraph, destination bones in the other, and every
// applied constraint is an arrow labelled with its kind. Styling:
// - Applied destination: solid green
// - Duplicate (warned) destination: amber, dashed
// - Excluded node: grey
func GenerateMermaid(scene *domain.Scene, report *domain.Report, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	if report == nil {
		return sb.String()
	}

	label := func(id domain.NodeID, role string) string {
		name := string(id)
		if scene != nil {
			name = scene.DisplayName(id)
		}
		return fmt.Sprintf("    %s[\"%s <br/> %s\"]\n", sanitizeMermaidID(string(id)), escape(name), role)
	}

	sb.WriteString(fmt.Sprintf("    subgraph src[\"%s\"]\n", escape(rootName(scene, report.Source))))
	for _, c := range report.Applied {
		sb.WriteString("    " + label(c.Source, c.Role.String()))
	}
	sb.WriteString("    end\n")

	sb.WriteString(fmt.Sprintf("    subgraph dst[\"%s\"]\n", escape(rootName(scene, report.Destination))))
	for _, c := range report.Applied {
		sb.WriteString("    " + label(c.Target, c.Role.String()))
	}
	for _, w := range report.Warnings {
		sb.WriteString("    " + label(w.Node, w.Role.String()))
	}
	sb.WriteString("    end\n")

	for _, c := range report.Applied {
		sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(string(c.Source)), c.Kind, sanitizeMermaidID(string(c.Target))))
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
	sb.WriteString("    classDef applied fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef duplicate fill:#fff8e1,stroke:#f9a825,stroke-width:2px,stroke-dasharray:4,color:#000;\n")
	sb.WriteString("    classDef excluded fill:#eeeeee,stroke:#9e9e9e,color:#000;\n")

	styled := make(map[string]bool)
	class := func(id domain.NodeID, name string) {
		safeID := sanitizeMermaidID(string(id))
		if safeID == "" || styled[safeID] {
			return
		}
		styled[safeID] = true
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", safeID, name))
	}
	for _, c := range report.Applied {
		class(c.Target, "applied")
	}
	for _, w := range report.Warnings {
		class(w.Node, "duplicate")
	}
	if overlay != nil {
		for _, id := range overlay.Excluded {
			if scene != nil {
				if _, ok := scene.Node(id); !ok {
					continue
				}
			}
			sb.WriteString(label(id, roleOf(scene, id)))
			class(id, "excluded")
		}
	}

	return sb.String()
}

func rootName(scene *domain.Scene, id domain.NodeID) string {
	if scene == nil {
		return string(id)
	}
	return scene.DisplayName(id)
}

// roleOf finds the role a node is bound to in its avatar's humanoid description, if any.
func roleOf(scene *domain.Scene, id domain.NodeID) string {
	if scene == nil {
		return "excluded"
	}
	for cur := id; cur != ""; {
		n, ok := scene.Node(cur)
		if !ok {
			break
		}
		if n.Animator != nil {
			for role, target := range n.Animator.Humanoid {
				if target == id {
					return role.String()
				}
			}
		}
		cur = n.Parent
	}
	return "excluded"
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, id)
}
