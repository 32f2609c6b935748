// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes fdn's naming rules and rename history via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fdn/internal/rules"
	"github.com/starford/fdn/internal/storage"
)

const rulesURI = "fdn://rules"

// RuleSource loads the current rule set.
type RuleSource interface {
	Rules() (rules.Rules, error)
}

// HistorySource walks recorded renames without changing them.
type HistorySource interface {
	Chain(current string, maxDepth int) ([]string, error)
}

// Server wraps the MCP server with fdn tools.
type Server struct {
	mcp           *server.MCPServer
	rules         RuleSource
	history       HistorySource
	maxChainDepth int
}

// New creates a new MCP server with all fdn tools registered.
func New(rs RuleSource, history HistorySource, maxChainDepth int, version string) *Server {
	s := &Server{rules: rs, history: history, maxChainDepth: maxChainDepth}

	s.mcp = server.NewMCPServer(
		"fdn",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("preview_name",
		mcp.WithDescription("Compute the normalized name for a bare file or directory name. Nothing is renamed."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Bare name without any directory part (e.g. My File.txt)")),
		mcp.WithBoolean("is_dir", mcp.Description("Treat the name as a directory: no extension is split off")),
	), s.previewName)

	s.mcp.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the active separator, the words replaced by it and the term substitutions."),
	), s.listRules)

	s.mcp.AddTool(mcp.NewTool("history",
		mcp.WithDescription("List the previous names recorded for a bare name, newest first."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Current bare name of the entry")),
	), s.historyTool)

	s.mcp.AddResource(
		mcp.NewResource(rulesURI, "Naming Rules",
			mcp.WithResourceDescription("Active naming rules as JSON."),
			mcp.WithMIMEType("application/json"),
		),
		s.readRulesResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type termWordDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type rulesDTO struct {
	Separator  string        `json:"separator"`
	ToSepWords []string      `json:"to_sep_words"`
	TermWords  []termWordDTO `json:"term_words"`
}

func toDTO(r rules.Rules) rulesDTO {
	out := rulesDTO{
		Separator:  r.Separator,
		ToSepWords: append([]string{}, r.ToSepWords...),
		TermWords:  make([]termWordDTO, 0, len(r.TermWords)),
	}
	for _, t := range r.TermWords {
		out.TermWords = append(out.TermWords, termWordDTO{Key: t.Key, Value: t.Value})
	}
	return out
}

func (s *Server) previewName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := storage.ValidateName(name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rs, err := s.rules.Rules()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	isDir := req.GetBool("is_dir", false)
	return mcp.NewToolResultText(rs.Target(name, !isDir)), nil
}

func (s *Server) listRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rs, err := s.rules.Rules()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(toDTO(rs), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) historyTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names, err := s.history.Chain(name, s.maxChainDepth)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if names == nil {
		names = []string{}
	}
	out, _ := json.MarshalIndent(names, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRulesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	rs, err := s.rules.Rules()
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(toDTO(rs), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
