// Package lsp implements a Language Server Protocol server for propkit.
// It reports propkit diagnostics on open Go files and answers hover,
// completion, go-to-definition, references and symbol queries.
package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/conduit-lang/propkit/internal/tooling"
)

// ServerName is reported to clients during initialization
const ServerName = "propkit-lsp"

// Server answers LSP requests from a tooling.API document cache
type Server struct {
	api *tooling.API

	// client is nil until Serve connects
	client protocol.Client

	logger *zap.SugaredLogger
	zap    *zap.Logger

	version       string
	workspaceRoot string
	capabilities  protocol.ServerCapabilities
	routes        map[string]jsonrpc2.Handler

	// cancel stops Serve on exit
	cancel context.CancelFunc
}

// NewServer creates a server with default configuration and no logging
func NewServer() *Server {
	return NewServerWithConfig(nil, nil, "dev")
}

// NewServerWithConfig creates a server. Logs go to logger, which must not
// write to stdout; nil discards them.
func NewServerWithConfig(config *tooling.Config, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		api:     tooling.NewAPIWithConfig(config),
		logger:  logger.Named("lsp").Sugar(),
		zap:     logger,
		version: version,
		capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{},
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{":", "/", "\""},
			},
			HoverProvider:           true,
			DefinitionProvider:      &protocol.DefinitionOptions{},
			ReferencesProvider:      true,
			DocumentSymbolProvider:  true,
			WorkspaceSymbolProvider: true,
		},
	}

	s.routes = map[string]jsonrpc2.Handler{
		protocol.MethodInitialize:                 route(s, s.initialize),
		protocol.MethodInitialized:                notification(s, "initialized"),
		protocol.MethodShutdown:                   notification(s, "shutdown"),
		protocol.MethodExit:                       s.exit,
		protocol.MethodTextDocumentDidOpen:        route(s, s.didOpen),
		protocol.MethodTextDocumentDidChange:      route(s, s.didChange),
		protocol.MethodTextDocumentDidClose:       route(s, s.didClose),
		protocol.MethodTextDocumentDidSave:        route(s, s.didSave),
		protocol.MethodTextDocumentCompletion:     route(s, s.completion),
		protocol.MethodTextDocumentHover:          route(s, s.hover),
		protocol.MethodTextDocumentDefinition:     route(s, s.definition),
		protocol.MethodTextDocumentReferences:     route(s, s.references),
		protocol.MethodTextDocumentDocumentSymbol: route(s, s.documentSymbol),
		protocol.MethodWorkspaceSymbol:            route(s, s.workspaceSymbol),
	}
	return s
}

// route adapts a typed method to the JSON-RPC handler signature. Undecodable
// params reply InvalidParams; any other failure replies InternalError.
func route[P any](s *Server, method func(ctx context.Context, params *P) (any, error)) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		var params P
		if err := json.Unmarshal(req.Params(), &params); err != nil {
			return reply(ctx, nil, &jsonrpc2.Error{
				Code:    jsonrpc2.InvalidParams,
				Message: fmt.Sprintf("invalid %s params: %v", req.Method(), err),
			})
		}

		result, err := method(ctx, &params)
		if err != nil {
			s.logger.Warnw("Request failed", "method", req.Method(), "error", err)
			var rpcErr *jsonrpc2.Error
			if !errors.As(err, &rpcErr) {
				rpcErr = &jsonrpc2.Error{Code: jsonrpc2.InternalError, Message: err.Error()}
			}
			return reply(ctx, nil, rpcErr)
		}
		return reply(ctx, result, nil)
	}
}

// notification acknowledges a message that needs no work
func notification(s *Server, what string) jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, _ jsonrpc2.Request) error {
		s.logger.Infow("Client notification", "message", what)
		return reply(ctx, nil, nil)
	}
}

// Run serves LSP over stdin/stdout until the client exits or ctx is done
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, stdrwc{})
}

// Serve serves LSP over rwc until the client exits or ctx is done
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.logger.Info("Starting propkit language server")

	ctx, s.cancel = context.WithCancel(ctx)

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.client = protocol.ClientDispatcher(conn, s.zap)
	conn.Go(ctx, s.handler())

	select {
	case <-ctx.Done():
	case <-conn.Done():
	}

	s.logger.Info("Shutting down propkit language server")
	return conn.Close()
}

func (s *Server) handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		s.logger.Debugw("Received", "method", req.Method())
		if h, ok := s.routes[req.Method()]; ok {
			return h(ctx, reply, req)
		}
		return reply(ctx, nil, jsonrpc2.ErrMethodNotFound)
	}
}

func (s *Server) initialize(_ context.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		s.logger.Infow("Initialize from client", "name", params.ClientInfo.Name, "version", params.ClientInfo.Version)
	}

	switch {
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = uri.URI(params.WorkspaceFolders[0].URI).Filename()
	case params.RootURI != "":
		s.workspaceRoot = params.RootURI.Filename()
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	}

	return protocol.InitializeResult{
		Capabilities: s.capabilities,
		ServerInfo:   &protocol.ServerInfo{Name: ServerName, Version: s.version},
	}, nil
}

func (s *Server) exit(ctx context.Context, reply jsonrpc2.Replier, _ jsonrpc2.Request) error {
	s.logger.Info("Exit requested")
	if err := reply(ctx, nil, nil); err != nil {
		s.logger.Warnw("Error replying to exit", "error", err)
	}
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *Server) didOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) (any, error) {
	doc := params.TextDocument
	s.sync(ctx, string(doc.URI), doc.Text, int(doc.Version))
	return nil, nil
}

// didChange applies the last change, which holds the whole text under full sync
func (s *Server) didChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) (any, error) {
	if n := len(params.ContentChanges); n > 0 {
		s.sync(ctx, string(params.TextDocument.URI), params.ContentChanges[n-1].Text, int(params.TextDocument.Version))
	}
	return nil, nil
}

func (s *Server) didClose(_ context.Context, params *protocol.DidCloseTextDocumentParams) (any, error) {
	s.api.CloseDocument(string(params.TextDocument.URI))
	return nil, nil
}

func (s *Server) didSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) (any, error) {
	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return nil, nil
}

// sync reanalyzes a document and republishes its diagnostics
func (s *Server) sync(ctx context.Context, docURI, content string, version int) {
	s.logger.Debugw("Document synced", "uri", docURI, "version", version)
	if _, err := s.api.UpdateDocument(docURI, content, version); err != nil {
		s.logger.Warnw("Error analyzing document", "uri", docURI, "error", err)
	}
	s.publishDiagnostics(ctx, docURI)
}

// diagnosticsFor converts a document's tooling diagnostics. The first use of
// a duplicated id is attached as related information.
func (s *Server) diagnosticsFor(docURI string) []protocol.Diagnostic {
	diagnostics := s.api.GetDiagnostics(docURI)

	out := make([]protocol.Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		diag := protocol.Diagnostic{
			Range:    convertRange(d.Range),
			Severity: convertSeverity(d.Severity),
			Code:     d.Code,
			Source:   d.Source,
			Message:  d.Message,
		}
		for _, rel := range d.Related {
			diag.RelatedInformation = append(diag.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: convertLocation(rel),
				Message:  "first declared here",
			})
		}
		out = append(out, diag)
	}
	return out
}

func (s *Server) publishDiagnostics(ctx context.Context, docURI string) {
	if s.client == nil {
		return
	}
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Diagnostics: s.diagnosticsFor(docURI),
	})
	if err != nil {
		s.logger.Warnw("Error publishing diagnostics", "uri", docURI, "error", err)
	}
}

func convertSeverity(severity tooling.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch severity {
	case tooling.DiagnosticSeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case tooling.DiagnosticSeverityInfo:
		return protocol.DiagnosticSeverityInformation
	case tooling.DiagnosticSeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

// stdrwc joins stdin and stdout into one stream
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdrwc) Close() error {
	return errors.Join(os.Stdin.Close(), os.Stdout.Close())
}
