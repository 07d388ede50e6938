package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/aindus-labs/veritas/pkg/core"
	"github.com/aindus-labs/veritas/pkg/veritas"
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive calculation session",
		Long: `Start an interactive session. Expressions are evaluated as they are
entered; variables set with .set persist across evaluations.

Type .help inside the session for the available commands.`,
		RunE: runRepl,
	}
}

// replSession holds the mutable state of one interactive session.
type replSession struct {
	cmdCtx   *CommandContext
	bindings core.Bindings
	level    string
	proofs   bool
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	session := &replSession{
		cmdCtx:   cmdCtx,
		bindings: core.Bindings{},
	}

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".veritas_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "veritas> ",
		HistoryFile:     historyFile,
		AutoComplete:    newReplCompleter(cmdCtx),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Veritas REPL (functions: %d)\n", cmdCtx.Calculator.Functions().Len())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := session.handleDotCommand(cmd, line); quit {
				break
			}
			continue
		}

		session.evaluate(cmd, line)
	}

	return nil
}

func (s *replSession) evaluate(cmd *cobra.Command, query string) {
	ctx := cmd.Context()
	if timeout := s.cmdCtx.Cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := s.cmdCtx.Calculator.Calculate(ctx, veritas.Request{
		Query:             query,
		Variables:         s.bindings,
		EnableProofs:      s.proofs,
		VerificationLevel: s.level,
	})
	if err != nil {
		s.cmdCtx.Renderer.Failure(err)
		return
	}

	if err := s.cmdCtx.Renderer.Result(query, resp); err != nil {
		s.cmdCtx.Renderer.Failure(err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
}

// handleDotCommand processes a dot-command. Returns true when the session
// should end.
func (s *replSession) handleDotCommand(cmd *cobra.Command, line string) bool {
	out := cmd.OutOrStdout()
	errW := cmd.ErrOrStderr()

	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printReplHelp(out)

	case ".vars":
		if len(s.bindings) == 0 {
			_, _ = fmt.Fprintln(out, "(no variables set)")
			break
		}
		names := make([]string, 0, len(s.bindings))
		for name := range s.bindings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, _ = fmt.Fprintf(out, "  %s = %s\n", name, core.FormatAnswer(s.bindings[name]))
		}

	case ".set":
		if len(parts) != 3 {
			_, _ = fmt.Fprintln(errW, "Usage: .set <name> <value>")
			break
		}
		value, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			_, _ = fmt.Fprintf(errW, "%q is not a number\n", parts[2])
			break
		}
		s.bindings[parts[1]] = value

	case ".unset":
		if len(parts) != 2 {
			_, _ = fmt.Fprintln(errW, "Usage: .unset <name>")
			break
		}
		delete(s.bindings, parts[1])

	case ".funcs":
		if err := printFunctions(s.cmdCtx); err != nil {
			_, _ = fmt.Fprintf(errW, "Error: %v\n", err)
		}

	case ".level":
		if len(parts) != 2 {
			_, _ = fmt.Fprintf(out, "level: %s\n", orDefault(s.level, "standard"))
			break
		}
		if _, err := core.ParseLevel(parts[1]); err != nil {
			_, _ = fmt.Fprintf(errW, "Error: %v\n", err)
			break
		}
		s.level = parts[1]

	case ".proof":
		s.proofs = !s.proofs
		_, _ = fmt.Fprintf(out, "proofs: %v\n", s.proofs)

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errW, "Unknown command: %s (type .help for commands)\n", command)
	}

	return false
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .vars              List variable bindings
  .set <name> <v>    Bind a variable
  .unset <name>      Remove a variable binding
  .funcs             List available functions
  .level [name]      Show or set the verification level
  .proof             Toggle calculation proofs
  .clear             Clear the screen
  .quit / .exit      Exit the session

Tips:
  - Use arrow keys to navigate history
  - Tab completion works for function names
`
	_, _ = fmt.Fprintln(w, help)
}

// newReplCompleter creates a readline completer over function names and
// dot-commands.
func newReplCompleter(cmdCtx *CommandContext) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range cmdCtx.Calculator.Functions().Names() {
		items = append(items, readline.PcItem(name+"("))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".vars"),
		readline.PcItem(".set"),
		readline.PcItem(".unset"),
		readline.PcItem(".funcs"),
		readline.PcItem(".level",
			readline.PcItem("standard"),
			readline.PcItem("high"),
			readline.PcItem("maximum"),
		),
		readline.PcItem(".proof"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
