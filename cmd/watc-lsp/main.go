// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"watc/internal/ast"
	"watc/internal/config"
	"watc/internal/decls"
	"watc/internal/emit"
	cerrors "watc/internal/errors"
	"watc/internal/frontend"
	"watc/internal/lspbridge"
	"watc/internal/peephole"
)

const serverName = "watc"

// watcHandler implements the glsp protocol handlers, recompiling a
// document's functions and republishing diagnostics on every open/change
// notification, the same read-from-disk-on-every-event shape the
// teacher's KansoHandler uses rather than tracking in-memory edits.
type watcHandler struct {
	mu      sync.RWMutex
	bridges map[string]*lspbridge.Bridge
	cfg     config.Config
}

func newWatcHandler() *watcHandler {
	return &watcHandler{
		bridges: make(map[string]*lspbridge.Bridge),
		cfg:     config.Default(),
	}
}

func (h *watcHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("watc-lsp Initialize called")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *watcHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("watc-lsp Initialized")
	return nil
}

func (h *watcHandler) Shutdown(ctx *glsp.Context) error {
	log.Println("watc-lsp Shutdown")
	return nil
}

func (h *watcHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.recompile(ctx, params.TextDocument.URI)
}

func (h *watcHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.recompile(ctx, params.TextDocument.URI)
}

func (h *watcHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.Lock()
	bridge, ok := h.bridges[uri]
	delete(h.bridges, uri)
	h.mu.Unlock()

	if ok {
		bridge.SetContext(ctx)
		bridge.Reset()
	}
	return nil
}

func (h *watcHandler) bridgeFor(uri protocol.URI) *lspbridge.Bridge {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.bridges[uri]
	if !ok {
		b = lspbridge.New(uri)
		h.bridges[uri] = b
	}
	return b
}

// recompile re-reads the document from disk, parses and compiles every
// function in it, and publishes whatever diagnostics result. A fresh
// Reset precedes every pass so a since-fixed error doesn't linger.
func (h *watcHandler) recompile(ctx *glsp.Context, rawURI protocol.URI) error {
	bridge := h.bridgeFor(rawURI)
	bridge.SetContext(ctx)
	bridge.Reset()

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	prog, err := frontend.Parse(path, string(content))
	if err != nil {
		bridge.Report(cerrors.Code("PARSE"), parseErrorPosition(path, err), err.Error(), nil)
		return nil
	}

	fns, err := frontend.ConvertProgram(prog, h.cfg)
	if err != nil {
		bridge.Report(cerrors.Code("CONVERT"), ast.Position{Filename: path, Line: 1, Column: 1}, err.Error(), nil)
		return nil
	}

	table := decls.NewMemTable()
	oracle := decls.NewOracle()
	for _, fn := range fns {
		b := emit.CompileFunction(fn, table, oracle, bridge, bridge)
		if h.cfg.Optimize {
			peephole.Optimize(b)
		}
	}
	return nil
}

// parseErrorPosition recovers a source position from a participle parse
// error, falling back to the document's start when the error carries none.
func parseErrorPosition(path string, err error) ast.Position {
	pe, ok := err.(participle.Error)
	if !ok {
		return ast.Position{Filename: path, Line: 1, Column: 1}
	}
	pos := pe.Position()
	return ast.Position{Filename: path, Line: pos.Line, Column: pos.Column}
}

// uriToPath converts a file:// URI to a platform-local path, mirroring
// the teacher's own conversion including its Windows drive-letter fixup.
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return path, nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func main() {
	commonlog.Configure(1, nil)

	h := newWatcHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, serverName, false)

	log.Println("Starting watc LSP server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting watc LSP server:", err)
		os.Exit(1)
	}
}
