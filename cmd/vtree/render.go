package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/internal/publish"
	"github.com/vango-dev/vtree/internal/resume"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/render"
)

func renderCmd() *cobra.Command {
	var (
		out      string
		locale   string
		pretty   bool
		noUpload bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the resume to a standalone HTML page",
		Long: `Render the resume to a standalone HTML page.

The page is written to publish.output and, when publish.s3.bucket is set,
uploaded to publish.s3.key in that bucket. Credentials come from the
standard AWS environment variables.

Examples:
  vtree render
  vtree render --locale=de --out=cv.de.html
  vtree render --no-upload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if locale != "" {
				cfg.Resume.Locale = locale
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Render.Pretty = pretty
			}
			if noUpload {
				cfg.Publish.S3.Bucket = ""
			}
			if out == "" {
				out = cfg.OutputPath()
			}
			return runRender(cmd.Context(), cfg, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default from config)")
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale for dates and the page language (default from config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the HTML output")
	cmd.Flags().BoolVar(&noUpload, "no-upload", false, "Skip the S3 upload even when a bucket is configured")

	return cmd
}

func runRender(ctx context.Context, cfg *config.Config, out string) error {
	logger := cfg.Logger(os.Stderr)

	data, err := resume.Load(cfg.ResumePath())
	if err != nil {
		return err
	}

	html, err := renderPage(cfg, data, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	sinks := publish.Multi{publish.NewFileSink(filepath.Dir(out))}
	s3cfg := cfg.Publish.S3
	if s3cfg.Bucket != "" {
		client := publish.NewS3Client(s3cfg.Region, s3cfg.Endpoint)
		sinks = append(sinks, publish.As(publish.NewS3Sink(client, s3cfg.Bucket, ""), s3cfg.Key))
	}

	err = sinks.Publish(ctx, publish.Document{
		Name:        filepath.Base(out),
		ContentType: "text/html; charset=utf-8",
		Body:        bytes.NewReader(html),
	})
	if err != nil {
		return err
	}

	success("Wrote %s (%d bytes)", out, len(html))
	if s3cfg.Bucket != "" {
		success("Uploaded s3://%s/%s", s3cfg.Bucket, s3cfg.Key)
	}
	return nil
}

// renderPage renders data to a complete HTML document using a runtime
// configured from cfg.
func renderPage(cfg *config.Config, data *resume.Resume, logger *slog.Logger, reg prometheus.Registerer) ([]byte, error) {
	// The timer scheduler flushes from its own goroutine under mu.
	var mu sync.Mutex
	mu.Lock()
	defer mu.Unlock()

	opts, err := cfg.EngineOptions(&mu)
	if err != nil {
		return nil, err
	}
	opts = append(opts, cfg.TelemetryOptions(reg)...)

	doc := dom.NewDocument()
	body := doc.CreateElement("body")
	opts = append(opts, reconcile.WithLogger(logger), reconcile.WithDocument(doc))
	rt := reconcile.New(opts...)

	_, err = rt.Render(resume.Render(data, cfg.Resume.Locale), body, nil)
	if err == nil {
		err = rt.Flush()
	}
	if err != nil {
		return nil, err
	}

	st := rt.Stats()
	logger.Debug("rendered", "pooled_nodes", st.PooledNodes, "pooled_components", st.PooledComponents)

	var buf bytes.Buffer
	renderer := render.NewRenderer(render.RendererConfig{
		Pretty: cfg.Render.Pretty,
		Indent: cfg.Render.Indent,
	})
	err = renderer.RenderPage(&buf, render.PageData{
		Body:         body,
		BodyChildren: true,
		Title:        resume.Title(data),
		Lang:         resume.Locale(cfg.Resume.Locale).String(),
		Meta:         []render.MetaTag{{Name: "generator", Content: "vtree " + version}},
		Styles:       []string{resume.Styles},
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
