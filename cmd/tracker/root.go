package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/tracker/internal/assistant"
	"github.com/gorewood/tracker/internal/command"
	"github.com/gorewood/tracker/internal/config"
	"github.com/gorewood/tracker/internal/console"
	"github.com/gorewood/tracker/internal/export"
	"github.com/gorewood/tracker/internal/llm"
	"github.com/gorewood/tracker/internal/output"
	"github.com/gorewood/tracker/internal/session"
	"github.com/gorewood/tracker/internal/timelog"
)

// rootFlags holds the flags of the interactive command.
type rootFlags struct {
	config      string
	key         string
	list        bool
	send        bool
	assistant   string
	contextSize int
	noHistory   bool
}

// newRootCmd creates the root command for the tracker CLI.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "tracker [message]",
		Short: "A personal time-tracking journal",
		Long: `Tracker - a personal time-tracking journal for the terminal.

Type what you just finished and press enter: the task is timestamped and
the time since the previous entry is shown. The journal is saved to a JSON
file (one per day by default) on /w, at end of input and on Ctrl+C.

Commands at the prompt:
` + builtinHelp() + `  /<prefix> [message]       ask every assistant with that prefix

Assistants are configured in <config dir>/config.json (or .yaml) and in
<config dir>/assistants/*.md.`,
		Example: `  tracker                         # start or resume today's journal
  tracker -f work.json            # use another journal file
  tracker --list                  # print the journal and exit
  tracker --send                  # ask the default assistant and exit
  tracker --send -a coach "how was my morning?"`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, flags, args)
		},
	}

	// Load .env.local (then .env) for API keys that can't be exported to env.
	// Environment variables always take precedence over file values.
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		loadEnvFiles(newLogger(cmd))
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("file", "f", "", "Journal file (default tracker_DD_MM_YYYY.json)")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")
	cmd.PersistentFlags().Bool("debug", false, "Write debug logs to stderr")

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "Assistant config file (default <config dir>/config.json)")
	cmd.Flags().StringVarP(&flags.key, "key", "k", "", "DeepSeek API key (overrides "+llm.KeyEnvVar+" and the config)")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "Print the journal and exit")
	cmd.Flags().BoolVarP(&flags.send, "send", "s", false, "Send the journal to an assistant and exit")
	cmd.Flags().StringVarP(&flags.assistant, "assistant", "a", assistant.DefaultPrefix, "Assistant prefix used by --send")
	cmd.Flags().IntVar(&flags.contextSize, "context", 0, "Entries sent to assistants (default from config)")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not read or write the prompt history file")

	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// builtinHelp renders the prompt commands for the long help.
func builtinHelp() string {
	var b strings.Builder
	for _, c := range command.Builtins() {
		fmt.Fprintf(&b, "  %-25s %s\n", c.Usage, c.Help)
	}
	return b.String()
}

// logPath resolves --file.
func logPath(cmd *cobra.Command) string {
	if path := lookupFlag(cmd, "file"); path != "" {
		return path
	}
	return config.DefaultLogPath(time.Now())
}

// runRoot executes the root command: list, one-shot send, or the
// interactive session.
func runRoot(cmd *cobra.Command, flags *rootFlags, args []string) error {
	printer := newPrinter(cmd)
	logger := newLogger(cmd)

	if len(args) > 0 && !flags.send {
		err := output.NewUserError("unexpected arguments: a message is only accepted with --send")
		printer.Error(err)
		return err
	}

	store := timelog.NewStore(logPath(cmd))
	log, err := store.Load()
	if err != nil {
		printer.Error(err)
		return err
	}
	logger.Debug("journal loaded", "path", store.Path(), "entries", log.Len())

	if flags.list {
		return printJournal(printer, log, store.Path())
	}

	registry, err := loadRegistry(flags)
	if err != nil {
		printer.Error(err)
		return err
	}

	renderer, err := console.NewMarkdown(console.Width(os.Stdout), printer.IsTTY())
	if err != nil {
		logger.Debug("markdown renderer unavailable", "error", err)
	}

	opts := session.Options{
		Log:      log,
		Store:    store,
		Registry: registry,
		Client: llm.New(llm.Config{
			DeepSeekKey: registry.Settings().DeepSeekKey,
			Logger:      logger,
		}),
		Printer: printer,
		Logger:  logger,
	}
	if renderer != nil {
		opts.Renderer = renderer
	}

	if flags.send {
		return runSend(cmd, opts, flags.assistant, strings.Join(args, " "))
	}

	opts.Reader = openReader(cmd, printer, flags.noHistory)
	if printer.IsTTY() {
		printer.Println(printer.Bold("== Time Tracker =="))
	}
	return session.New(opts).Run(cmd.Context())
}

// loadRegistry reads the assistant configuration and applies the
// credential precedence: --key, then DEEPSEEK_API_KEY, then the config.
func loadRegistry(flags *rootFlags) (*assistant.Registry, error) {
	path := flags.config
	if path == "" {
		path = config.ConfigPath()
	}
	registry, err := assistant.LoadWithDir(path, config.AssistantsDir())
	if err != nil {
		return nil, err
	}
	return registry.
		WithKey(os.Getenv(llm.KeyEnvVar)).
		WithKey(flags.key).
		WithContextSize(flags.contextSize), nil
}

// runSend asks every assistant with prefix and exits.
func runSend(cmd *cobra.Command, opts session.Options, prefix, message string) error {
	s := session.New(opts)
	matched, err := s.AskPrefix(cmd.Context(), prefix, message)
	if err != nil {
		exitErr := output.NewInterruptedError(nil)
		exitErr.Cause = err
		return exitErr
	}
	if !matched {
		err := output.NewUserError(fmt.Sprintf("no assistant with prefix %q (see /a)", prefix))
		opts.Printer.Error(err)
		return err
	}
	return nil
}

// openReader picks the line editor for terminals and a plain reader for
// anything else, such as piped input or tests.
func openReader(cmd *cobra.Command, printer *output.Printer, noHistory bool) session.LineReader {
	in := cmd.InOrStdin()
	file, ok := in.(*os.File)
	if !ok {
		return console.NewPlain(in, cmd.OutOrStdout())
	}

	history := console.NewHistory()
	if !noHistory {
		if path := config.HistoryPath(); path != "" {
			loaded, err := console.LoadHistory(path)
			if err != nil {
				printer.Warn("history disabled: %v", err)
			} else {
				history = loaded
			}
		}
	}
	return console.Open(file, cmd.OutOrStdout(), history)
}

// journalOutput is the --list --json shape.
type journalOutput struct {
	File    string         `json:"file"`
	Entries []journalEntry `json:"entries"`
}

type journalEntry struct {
	Index   int    `json:"index"`
	Label   string `json:"label"`
	At      string `json:"at"`
	Elapsed string `json:"elapsed,omitempty"`
}

// printJournal prints every entry with its duration.
func printJournal(printer *output.Printer, log *timelog.Log, path string) error {
	if printer.IsJSON() {
		out := journalOutput{File: path, Entries: []journalEntry{}}
		for _, line := range timelog.Summarize(log) {
			entry := journalEntry{Index: line.Position - 1, Label: line.Label, At: timelog.EncodeTimestamp(line.At)}
			if !line.First() {
				entry.Elapsed = timelog.FormatElapsed(line.Elapsed)
			}
			out.Entries = append(out.Entries, entry)
		}
		return printer.WriteJSON(out)
	}

	if log.Len() == 0 {
		printer.Notice("%s: nenhuma entrada", path)
		return nil
	}

	report := export.Build(log, path)
	layout := timelog.SummaryLayout(log)
	rows := make([][]string, 0, log.Len())
	for _, line := range timelog.Summarize(log) {
		elapsed := ""
		if !line.First() {
			elapsed = timelog.FormatElapsed(line.Elapsed)
		}
		rows = append(rows, []string{
			fmt.Sprint(line.Position - 1),
			line.Label,
			line.At.Format(layout),
			elapsed,
		})
	}
	printer.Table([]string{"#", "Task", "At", "Elapsed"}, rows)
	printer.Section("Totals")
	for _, total := range report.Totals {
		printer.KeyValue(total.Label, total.Elapsed)
	}
	return nil
}
