package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/omc-kpi-extractor/internal/config"
	"github.com/a3tai/omc-kpi-extractor/internal/export"
	"github.com/a3tai/omc-kpi-extractor/internal/mcp"
	"github.com/a3tai/omc-kpi-extractor/internal/pdf"
	"github.com/a3tai/omc-kpi-extractor/internal/report"
	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// app is the state shared by the subcommands once flags are parsed
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "omc-kpi",
		Short: "Extract quarterly KPIs from oil marketing company reports",
		Long: `omc-kpi reads quarterly investor reports of Indian oil marketing
companies (HPCL, BPCL, IOCL, RIL) and collects their KPIs into one
Excel workbook with a sheet per company.

Settings come from flags, OMC_KPI_* environment variables and an
optional config file, in that order of precedence.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if version != "dev" {
				cfg.Version = version
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("{{.Version}}\n")

	config.DefineFlags(root.PersistentFlags(), config.DefaultConfig())

	root.AddCommand(a.extractCmd())
	root.AddCommand(a.schemaCmd())
	root.AddCommand(a.serveCmd())
	return root
}

func (a *app) extractCmd() *cobra.Command {
	var (
		perIssuer = make(map[schema.Issuer]*[]string)
		specs     []string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract KPIs from uploaded reports into a workbook",
		Long: `Extract KPIs from quarterly reports and write them to a workbook.

Each company gets one sheet with one row per report, numbered in the order
the reports are given. Reports that cannot be opened keep their row and are
listed on an "Errors" sheet.

Example:
  omc-kpi extract --hpcl q1.pdf,q2.pdf --ril ril_q1.pdf
  omc-kpi extract --issuer MRPL=mrpl_q1.pdf --schema extra.yaml -o kpis.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := a.cfg.NewLogger(a.stderr)

			service, err := newService(a.cfg, logger)
			if err != nil {
				return err
			}

			var uploads []report.Upload
			for _, issuer := range schema.Builtin() {
				if paths := *perIssuer[issuer.Issuer]; len(paths) > 0 {
					uploads = append(uploads, report.Upload{Issuer: issuer.Issuer, Paths: paths})
				}
			}
			for _, spec := range specs {
				u, err := report.ParseUpload(service.Registry(), spec)
				if err != nil {
					return err
				}
				uploads = append(uploads, u)
			}
			uploads = report.MergeUploads(uploads)
			if len(uploads) == 0 {
				return errors.New("no documents given: use --hpcl, --bpcl, --iocl, --ril or --issuer")
			}

			res, err := service.Extract(cmd.Context(), uploads)
			if err != nil {
				return err
			}
			if err := service.Save(res, a.cfg.OutputPath); err != nil {
				return err
			}

			fmt.Fprint(a.stdout, res.String())
			fmt.Fprintf(a.stdout, "Wrote %d record(s) to %s\n", res.Records(), a.cfg.OutputPath)
			return nil
		},
	}

	for _, s := range schema.Builtin() {
		paths := new([]string)
		perIssuer[s.Issuer] = paths
		cmd.Flags().StringSliceVar(paths, argumentName(s.Issuer), nil,
			fmt.Sprintf("Comma-separated %s report paths in upload order", s.Issuer))
	}
	cmd.Flags().StringArrayVar(&specs, "issuer", nil, "Reports for any issuer as ISSUER=path[,path...] (repeatable)")

	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [issuer]",
		Short: "Show the fields extracted for each issuer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			registry, err := loadRegistry(a.cfg)
			if err != nil {
				return err
			}

			issuers := registry.Issuers()
			if len(args) == 1 {
				issuer, err := registry.ParseIssuer(args[0])
				if err != nil {
					return err
				}
				issuers = []schema.Issuer{issuer}
			}

			for i, issuer := range issuers {
				s, err := registry.Lookup(issuer)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				if err := schema.Describe(a.stdout, s, a.cfg.LegacyHeaders); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the extractor as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol, so logs go to stderr and only when debugging
			logOutput := io.Discard
			if a.cfg.IsDebug() {
				logOutput = a.stderr
			}
			logger := a.cfg.NewLogger(logOutput)
			logger.Debug("starting with configuration", "config", a.cfg.String())

			service, err := newService(a.cfg, logger)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(a.cfg, service, logger)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			return server.Run(cmd.Context())
		},
	}
}

// loadRegistry returns the built-in schemas merged with the configured
// schema file, if any
func loadRegistry(cfg *config.Config) (*schema.Registry, error) {
	registry := schema.Default()
	if cfg.SchemaFile == "" {
		return registry, nil
	}

	schemas, err := schema.LoadFile(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	if err := registry.Merge(schemas...); err != nil {
		return nil, fmt.Errorf("schema file %s: %w", cfg.SchemaFile, err)
	}
	return registry, nil
}

func newService(cfg *config.Config, logger *slog.Logger) (*report.Service, error) {
	registry, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	reader := pdf.NewReader(cfg.MaxFileSize, pdf.WithLogger(logger))
	return report.NewService(registry, reader, report.Options{
		Workers: cfg.Workers,
		Export: export.Options{
			LegacyHeaders: cfg.LegacyHeaders,
			SkipEmpty:     !cfg.KeepEmpty,
		},
	}, logger), nil
}

func argumentName(issuer schema.Issuer) string {
	return strings.ToLower(string(issuer))
}

func versionString() string {
	return fmt.Sprintf("%s (built %s, commit %s, %s)", version, buildTime, gitCommit, runtime.Version())
}
