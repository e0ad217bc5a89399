// Package cli implements the interomap command-line interface.
//
// The main commands are:
//   - serve: run the HTTP host API for embedded widget sessions
//   - demo: drive a scripted drawing session and print the composed output
//   - render: convert a serialized drawing into an SVG
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/interomap/interomap/pkg/buildinfo"
)

// appName is the application name used for display and completions.
const appName = "interomap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Interomap runs embeddable affect-mapping drawing sessions",
		Long:         `Interomap is the session engine behind an embeddable body-mapping widget: participants paint felt sensations onto a persona silhouette, and every stroke is captured with its affect ratings and pushed to the embedding host as a serialized drawing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.demoCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}
