// Package output provides human and JSON output for the tracker CLI.
//
// # Printer
//
// The Printer is used by every command and by the interactive session:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout()))
//
//	printer.Notice("Inicio da contagem %s", ts)  // dimmed "# ..." status line
//	printer.Table([]string{"#", "Task"}, rows)
//	printer.Error(err)
//
// Colors come from lipgloss and are disabled when output is not a TTY
// (see ResolveColorMode for the --color flag).
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad flags, bad configuration
//	output.ExitSystemError // 2: malformed log, I/O, network
//	output.ExitConflict    // 3: refusing to overwrite
//	output.ExitInterrupted // 130: log saved after Ctrl+C
package output
