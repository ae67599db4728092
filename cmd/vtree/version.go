package main

import (
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(version)
				return
			}

			printBanner()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  Version:\t%s\n", version)
			fmt.Fprintf(w, "  Commit:\t%s\n", commit)
			fmt.Fprintf(w, "  Built:\t%s\n", date)
			fmt.Fprintf(w, "  Runtime:\t%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if cfg, err := loadConfig(); err == nil {
				fmt.Fprintf(w, "  Config:\t%s\n", cfg.Path())
			}
			w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	return cmd
}
