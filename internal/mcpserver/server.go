// Package mcpserver exposes the Ticketmaster category fetchers as MCP tools.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	apperrors "eventaide/internal/common/errors"
	"eventaide/internal/render"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type Server struct {
	cfg      Config
	mcp      *server.MCPServer
	source   EventSource
	recorder ToolRecorder
	logger   Logger
}

func New(cfg Config, deps Dependencies) *Server {
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}
	s := &Server{
		cfg:      cfg,
		mcp:      server.NewMCPServer(cfg.Name, cfg.Version, server.WithToolCapabilities(false)),
		source:   deps.Source,
		recorder: deps.Recorder,
		logger:   deps.Logger,
	}
	for _, spec := range toolSpecs() {
		s.mcp.AddTool(mcp.NewToolWithRawSchema(spec.name, spec.description, spec.inputSchema()), s.handler(spec))
	}
	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Serve speaks MCP over the given streams (stdin/stdout in production) until
// ctx is cancelled or the input is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("mcp server starting", map[string]interface{}{
		"name":    s.cfg.Name,
		"version": s.cfg.Version,
	})
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) handler(spec toolSpec) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := s.call(ctx, spec, req.GetArguments())
		if s.recorder != nil {
			s.recorder.RecordToolCall(ctx, spec.name, err != nil)
		}
		if err != nil {
			s.logger.Warn("tool call failed", map[string]interface{}{
				"tool":      spec.name,
				"errorCode": string(apperrors.CodeOf(err)),
				"error":     err.Error(),
			})
			return mcp.NewToolResultError("Error: " + err.Error()), nil
		}
		return mcp.NewToolResultText(text), nil
	}
}

func (s *Server) call(ctx context.Context, spec toolSpec, raw map[string]interface{}) (string, error) {
	if err := spec.schema.Validate(raw).Err(); err != nil {
		return "", err
	}
	args, err := s.normalize(raw)
	if err != nil {
		return "", err
	}

	s.logger.Debug("tool call", map[string]interface{}{
		"tool":      spec.name,
		"city":      args.City,
		"stateCode": args.StateCode,
		"keyword":   args.Keyword,
	})

	grouped, err := spec.fetch(ctx, s.source, args)
	if err != nil {
		return "", err
	}

	if args.Format == formatText {
		return render.Markdown(grouped.Flatten()), nil
	}
	return indentJSON(grouped)
}

// normalize applies the configured city/state defaults to missing keys. A city
// that is present but blank is rejected.
func (s *Server) normalize(raw map[string]interface{}) (toolArgs, error) {
	str := func(key string) (string, bool) {
		v, ok := raw[key]
		if !ok || v == nil {
			return "", false
		}
		sv, _ := v.(string)
		return strings.TrimSpace(sv), true
	}

	var a toolArgs
	city, ok := str("city")
	if !ok {
		city = s.cfg.DefaultCity
	}
	if city == "" {
		return a, apperrors.NewInvalidArgumentError("missing required 'city' (or set DEFAULT_CITY)")
	}
	a.City = city

	if a.StateCode, ok = str("stateCode"); !ok {
		a.StateCode = s.cfg.DefaultStateCode
	}
	a.CountryCode, _ = str("countryCode")
	a.Keyword, _ = str("keyword")
	a.StartDate, _ = str("startDate")
	a.EndDate, _ = str("endDate")
	a.Format, _ = str("format")
	if a.Format == "" {
		a.Format = formatJSON
	}
	return a, nil
}

func indentJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
