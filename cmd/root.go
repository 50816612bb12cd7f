package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mstache/mstache/reader"
)

var (
	noColor    bool
	doTruncate bool
	debug      bool
	trace      bool
)

var rootCmd = &cobra.Command{
	Use:   "mstache [template]",
	Short: "Show a template source the way the engine will read it",
	Long: "Dumps a template source with line numbers, decompressing and " +
		"highlighting as needed. The template can be a file, an http(s) URL, " +
		"or piped on stdin.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevel()

		source, displayName, err := openTemplate(args)
		if err != nil {
			return err
		}

		return dump(cmd, source, displayName)
	},
}

// Execute is called by main.main() and only needs to happen once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable syntax highlighting")
	rootCmd.Flags().BoolVar(&doTruncate, "truncate", false,
		"Chop lines at the terminal width instead of wrapping (disables highlighting)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Print debug logs")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "Print trace logs, includes debug")
}

func setLogLevel() {
	// Warnings and up only unless asked; resolution logging clutters output
	log.SetLevel(log.WarnLevel)
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	if trace {
		log.SetLevel(log.TraceLevel)
	}
}

func openTemplate(args []string) (reader.LineSource, string, error) {
	if len(args) == 1 {
		return reader.Open(args[0])
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, "", fmt.Errorf("expected a template name, or a template piped on stdin")
	}

	source, err := reader.OpenStream(os.Stdin)
	if err != nil {
		return nil, "", err
	}
	return source, "", nil
}

func dump(cmd *cobra.Command, source reader.LineSource, displayName string) error {
	cursor := reader.NewCursor(source)
	defer func() {
		if err := cursor.Close(); err != nil {
			log.Warn("Failed to close the template source: ", err)
		}
	}()

	var lines []string
	for {
		line, err := cursor.ReadLine()
		if err != nil {
			return err
		}
		if line == nil {
			break
		}
		lines = append(lines, strings.TrimSuffix(strings.TrimSuffix(*line, "\n"), "\r"))
	}

	lines = colorize(lines, displayName)

	width := 0
	if doTruncate {
		var err error
		width, _, err = term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			log.Debug("Not a terminal, not truncating: ", err)
			width = 0
		}
	}

	gutter := len(strconv.Itoa(len(lines)))
	for lineIndex, line := range lines {
		if width > 0 {
			line = truncateToWidth(line, width-gutter-2)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%*d  %s\n", gutter, lineIndex+1, line)
	}

	return nil
}

// colorize highlights the template if stdout is a color-capable terminal and
// nothing disables it. Highlighting failures are cosmetic, never fatal.
func colorize(lines []string, displayName string) []string {
	if noColor || doTruncate || displayName == "" {
		return lines
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return lines
	}

	highlighted, err := highlight(strings.Join(lines, "\n"), displayName)
	if err != nil {
		log.Warn("Highlighting failed: ", err)
		return lines
	}
	if highlighted == nil {
		return lines
	}

	return strings.Split(*highlighted, "\n")
}
