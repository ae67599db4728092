package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┌┬┐┬─┐┌─┐┌─┐
  ╚╗╔╝ │ ├┬┘├┤ ├┤
   ╚╝  ┴ ┴└─└─┘└─┘
`

// configPath is the --config flag shared by every command.
var configPath string

func main() {
	errors.AutoColors(os.Stderr)

	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vtree",
		Short: "Render component trees to HTML",
		Long: `vtree renders a resume described as a component tree.

Commands:

  • render writes a standalone HTML page and optionally uploads it to S3
  • serve runs a live preview that patches the page over a websocket
  • check validates the configuration and resume data
  • init creates a vtree.json and an example resume`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: search upwards for vtree.json)")

	root.AddCommand(
		initCmd(),
		renderCmd(),
		serveCmd(),
		checkCmd(),
		versionCmd(),
	)
	return root
}

// loadConfig reads --config when given, otherwise the nearest config
// above the working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.LoadFromWorkingDir()
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
