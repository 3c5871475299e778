package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/mutker/kweeb/internal/errors"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	colorMuted  = lipgloss.Color("8")
	colorAccent = lipgloss.Color("6")

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(16)
	valueStyle = lipgloss.NewStyle().Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// row is a label/value pair in text output.
type row struct {
	label string
	value string
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return errors.New().WithData(errors.ErrInvalidArgument, struct {
			Flag  string
			Value string
		}{
			Flag:  "output",
			Value: format,
		})
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return validateFormat(format)
	}
}

// writeRows renders a titled block of label/value rows, styled when w is a
// terminal.
func writeRows(w io.Writer, title string, rows []row) error {
	styled := isTerminal(w)

	var b strings.Builder
	if title != "" {
		if styled {
			b.WriteString(titleStyle.Render(title))
		} else {
			b.WriteString(title)
		}
		b.WriteByte('\n')
	}
	for _, r := range rows {
		if styled {
			b.WriteString(labelStyle.Render(r.label))
			b.WriteString(valueStyle.Render(r.value))
		} else {
			fmt.Fprintf(&b, "%-16s%s", r.label, r.value)
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
