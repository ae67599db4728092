package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/resume"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and resume data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			success("Config %s", cfg.Path())

			data, err := resume.Load(cfg.ResumePath())
			if err != nil {
				return err
			}
			success("Resume %s: %d jobs, %d schools", cfg.ResumePath(), len(data.Work), len(data.Education))
			return nil
		},
	}
}
