// Package report formats binding reports for people.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// Markdown renders r as a Markdown document. scene, if given, supplies node names.
func Markdown(scene *domain.Scene, r *domain.Report) string {
	var sb strings.Builder
	name := func(id domain.NodeID) string {
		if scene == nil {
			return string(id)
		}
		return scene.DisplayName(id)
	}

	sb.WriteString(fmt.Sprintf("# %s: %s → %s\n\n", r.Kind.DisplayName(), name(r.Source), name(r.Destination)))

	if len(r.Applied) == 0 {
		sb.WriteString("_No constraints applied._\n\n")
	} else {
		sb.WriteString("| Role | Destination | Source | Weight |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, c := range r.Applied {
			sb.WriteString(fmt.Sprintf("| %s | `%s` | `%s` | %.2f |\n", c.Role, name(c.Target), name(c.Source), c.Weight))
		}
		sb.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range r.Warnings {
			sb.WriteString("- " + w.Message + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(Summary(r) + "\n")
	return sb.String()
}

// Summary is the one-line count of applied, warned and skipped roles.
func Summary(r *domain.Report) string {
	return fmt.Sprintf("%d applied, %d warnings, %d skipped (%d excluded)",
		len(r.Applied), len(r.Warnings), len(r.Skips), r.SkipCount(domain.SkipExcluded))
}

// WriteText writes r as plain lines: one per applied constraint, then the warnings.
func WriteText(w io.Writer, scene *domain.Scene, r *domain.Report) error {
	name := func(id domain.NodeID) string {
		if scene == nil {
			return string(id)
		}
		return scene.DisplayName(id)
	}
	for _, c := range r.Applied {
		if _, err := fmt.Fprintf(w, "%s\t%s <- %s\n", c.Role, name(c.Target), name(c.Source)); err != nil {
			return err
		}
	}
	for _, warn := range r.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warn.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, Summary(r))
	return err
}
