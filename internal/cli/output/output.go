// Package output renders calculation results for the CLI.
//
// The renderer supports four modes: table (go-pretty), markdown, plain
// text, and JSON. Mode "auto" picks table on a TTY and markdown otherwise,
// so piping veritas output into a document keeps it readable.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/veritas"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeTable    Mode = "table"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists the accepted mode names, for flag completion.
func Modes() []string {
	return []string{"auto", "table", "text", "markdown", "json"}
}

// Renderer writes formatted output.
type Renderer struct {
	out  io.Writer
	errW io.Writer
	mode Mode
}

// NewRenderer creates a renderer. ModeAuto is resolved immediately against
// stdout.
func NewRenderer(out, errW io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeTable, ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = resolveAuto()
	}
	return &Renderer{out: out, errW: errW, mode: mode}
}

func resolveAuto() Mode {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeTable
	}
	return ModeMarkdown
}

// Mode returns the resolved output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Result renders a completed calculation: the answer, and the proof table
// when the response carries one.
func (r *Renderer) Result(query string, resp *veritas.Response) error {
	if r.mode == ModeJSON {
		return r.JSON(resp)
	}

	_, _ = fmt.Fprintf(r.out, "%s = %s\n", query, resp.Answer)

	if resp.Proof == nil {
		return nil
	}

	switch r.mode {
	case ModeText:
		for i, step := range resp.Proof.Steps {
			_, _ = fmt.Fprintf(r.out, "  %d. %s\n", i+1, step.Description)
		}
	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "Step", "Result"})
		for i, step := range resp.Proof.Steps {
			t.AppendRow(table.Row{i + 1, step.Description, step.Result})
		}
		r.render(t)
	}

	_, _ = fmt.Fprintf(r.out, "confidence: %.2f\n", resp.Proof.ConfidenceScore)
	_, _ = fmt.Fprintf(r.out, "hash: %s\n", resp.Proof.VerificationHash)
	return nil
}

// Table renders a generic header + rows table in the current mode.
func (r *Renderer) Table(header []string, rows [][]string) {
	switch r.mode {
	case ModeText:
		for _, row := range rows {
			line := ""
			for i, cell := range row {
				if i > 0 {
					line += "  "
				}
				line += cell
			}
			_, _ = fmt.Fprintln(r.out, line)
		}
	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)
		headerRow := make(table.Row, len(header))
		for i, h := range header {
			headerRow[i] = h
		}
		t.AppendHeader(headerRow)
		for _, row := range rows {
			tr := make(table.Row, len(row))
			for i, cell := range row {
				tr[i] = cell
			}
			t.AppendRow(tr)
		}
		r.render(t)
	}
}

// JSON writes v as indented JSON regardless of mode.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Failure writes an error to the error stream. In JSON mode structured
// failures are emitted as a JSON object so scripts can parse them.
func (r *Renderer) Failure(err error) {
	var failure *core.Failure
	if r.mode == ModeJSON && errors.As(err, &failure) {
		if encErr := json.NewEncoder(r.errW).Encode(failure); encErr == nil {
			return
		}
	}
	_, _ = fmt.Fprintf(r.errW, "Error: %v\n", err)
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) render(t table.Writer) {
	if r.mode == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
