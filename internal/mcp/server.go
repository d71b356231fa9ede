package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/omc-kpi-extractor/internal/config"
	"github.com/a3tai/omc-kpi-extractor/internal/descriptions"
	"github.com/a3tai/omc-kpi-extractor/internal/export"
	"github.com/a3tai/omc-kpi-extractor/internal/report"
	"github.com/a3tai/omc-kpi-extractor/internal/schema"
	"github.com/a3tai/omc-kpi-extractor/internal/security"
)

// issuerArguments are the per-issuer path list arguments, in sheet order
var issuerArguments = []schema.Issuer{schema.HPCL, schema.BPCL, schema.IOCL, schema.RIL}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *report.Service
	paths     *security.PathValidator
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *report.Service, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := security.NewPathValidator(cfg.PDFDirectory)
	if err != nil {
		return nil, fmt.Errorf("invalid PDF directory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		paths:     paths,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()
	logger.Debug("registered MCP tools", "tools", descriptions.GetAllToolNames())

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	opts := []mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolExtractKPIs)),
	}
	for _, issuer := range issuerArguments {
		opts = append(opts, mcp.WithString(argumentName(issuer),
			mcp.Description(fmt.Sprintf("Comma-separated %s report paths in upload order", issuer)),
		))
	}
	opts = append(opts,
		mcp.WithString("issuers",
			mcp.Description("Other issuers as ISSUER=path,path; separate issuers with ';'"),
		),
		mcp.WithString("output",
			mcp.Description(fmt.Sprintf("Workbook path (default %s)", s.config.OutputPath)),
		),
	)
	s.mcpServer.AddTool(mcp.NewTool(descriptions.ToolExtractKPIs, opts...), s.handleExtractKPIs)

	listSchemasTool := mcp.NewTool(
		descriptions.ToolListSchemas,
		mcp.WithDescription(descriptions.GetToolDescription(descriptions.ToolListSchemas)),
		mcp.WithString("issuer",
			mcp.Description("Only describe this issuer"),
		),
	)
	s.mcpServer.AddTool(listSchemasTool, s.handleListSchemas)
}

func argumentName(issuer schema.Issuer) string {
	return strings.ToLower(string(issuer))
}

// Handler functions
func (s *Server) handleExtractKPIs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uploads, err := s.uploads(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(uploads) == 0 {
		return mcp.NewToolResultError("no documents given: set at least one of hpcl, bpcl, iocl, ril or issuers"), nil
	}

	output, err := s.paths.Resolve(request.GetString("output", s.config.OutputPath))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid output: %v", err)), nil
	}

	res, err := s.service.Extract(ctx, uploads)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.service.Save(res, output); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatExtractResult(res, output)), nil
}

func (s *Server) handleListSchemas(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	registry := s.service.Registry()

	issuers := registry.Issuers()
	if name := request.GetString("issuer", ""); name != "" {
		issuer, err := registry.ParseIssuer(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		issuers = []schema.Issuer{issuer}
	}

	var b strings.Builder
	for i, issuer := range issuers {
		sc, err := registry.Lookup(issuer)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		if err := schema.Describe(&b, sc, s.config.LegacyHeaders); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// uploads collects the per-issuer arguments and the free-form issuers
// argument, resolving every path inside the configured directory.
func (s *Server) uploads(request mcp.CallToolRequest) ([]report.Upload, error) {
	var uploads []report.Upload
	for _, issuer := range issuerArguments {
		if paths := report.SplitPaths(request.GetString(argumentName(issuer), "")); len(paths) > 0 {
			uploads = append(uploads, report.Upload{Issuer: issuer, Paths: paths})
		}
	}

	for _, spec := range strings.Split(request.GetString("issuers", ""), ";") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		u, err := report.ParseUpload(s.service.Registry(), spec)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}

	uploads = report.MergeUploads(uploads)
	for i := range uploads {
		resolved, err := s.paths.ResolveAll(uploads[i].Paths)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", uploads[i].Issuer, err)
		}
		uploads[i].Paths = resolved
	}
	return uploads, nil
}

func formatExtractResult(res *report.Result, output string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extracted %d record(s) into %s\n\n", res.Records(), output)
	b.WriteString(res.String())
	if failed := res.Failed(); failed > 0 {
		fmt.Fprintf(&b, "\n%d document(s) could not be opened; see the %q sheet.\n", failed, export.ErrorsSheet)
	}
	return b.String()
}

// Run serves MCP over stdin and stdout until ctx is cancelled or stdin closes
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves MCP over the given streams
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Debug("starting MCP server", "directory", s.paths.Root(), "server", s.config.ServerName)

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
