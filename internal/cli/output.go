package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/presentation/report"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/internal/presentation/tui"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format selects how reports are written.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat resolves a --format value. An empty value is text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json, yaml or markdown)", s)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteReport writes r to w. Text on a terminal is rendered Markdown.
func WriteReport(w io.Writer, scene *domain.Scene, r *domain.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	case FormatMarkdown:
		_, err := io.WriteString(w, report.Markdown(scene, r))
		return err
	}

	if IsTerminal(w) {
		if render, err := tui.NewRenderer(terminalWidth(w)); err == nil {
			if out, err := render(report.Markdown(scene, r)); err == nil {
				_, err = io.WriteString(w, out)
				return err
			}
		}
	}
	return report.WriteText(w, scene, r)
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// PrintError writes err for a person. Precondition failures print one message per line.
func PrintError(w io.Writer, err error) {
	var pre *domain.PreconditionError
	if errors.As(err, &pre) {
		for _, msg := range pre.Messages {
			fmt.Fprintln(w, msg)
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
