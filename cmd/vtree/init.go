package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/internal/resume"
)

func initCmd() *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a vtree.json and an example resume",
		Long: `Create a configuration file and an example resume.

The resume is only written when the data file does not exist yet, so
init can be re-run with --force to reset the configuration alone.

Examples:
  vtree init
  vtree init my-cv --format=yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, format, force)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Config and resume format: json or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	return cmd
}

func runInit(dir, format string, force bool) error {
	var ext string
	switch format {
	case "json":
		ext = ".json"
	case "yaml", "yml":
		ext = ".yaml"
	default:
		return errors.New("E142").WithDetail(format).WithSuggestion("Use --format=json or --format=yaml")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if config.Exists(abs) && !force {
		return errors.New("E153").WithDetail(abs).WithSuggestion("Pass --force to overwrite the configuration")
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return errors.New("E151").WithDetail(abs).Wrap(err)
	}

	cfg := config.New()
	cfg.Name = filepath.Base(abs)
	cfg.Resume.Data = "resume" + ext
	if err := cfg.SaveTo(filepath.Join(abs, "vtree"+ext)); err != nil {
		return err
	}
	success("Created %s", cfg.Path())

	dataPath := cfg.ResumePath()
	if _, err := os.Stat(dataPath); err == nil {
		info("Keeping existing %s", dataPath)
		return nil
	}
	if err := writeExample(dataPath, ext); err != nil {
		return err
	}
	success("Created %s", dataPath)
	info("Next: vtree serve --watch")
	return nil
}

func writeExample(path, ext string) error {
	var (
		data []byte
		err  error
	)
	if ext == ".json" {
		data, err = json.MarshalIndent(resume.Example(), "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(resume.Example())
	}
	if err != nil {
		return errors.New("E151").WithDetail(path).Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E151").WithDetail(path).Wrap(err)
	}
	return nil
}
