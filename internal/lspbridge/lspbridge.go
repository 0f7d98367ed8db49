// Package lspbridge publishes this core's two diagnostic collaborators
// (errors.Sink, trace.Sink) to an editor over the Language Server
// Protocol, standing in for the out-of-scope editor-integration surface.
// It adapts, rather than replaces: internal/errors and internal/trace
// stay ignorant of LSP entirely.
package lspbridge

import (
	"fmt"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"watc/internal/ast"
	cerrors "watc/internal/errors"
	"watc/internal/trace"
)

// WatcTraceNotification is the custom LSP method this bridge sends trace
// events under, mirroring how the teacher's handler reuses the standard
// publishDiagnostics notification for its own error channel.
const WatcTraceNotification = "$/watcTrace"

// TraceNotificationParams is the payload of a $/watcTrace notification.
type TraceNotificationParams struct {
	URI      protocol.URI `json:"uri"`
	Category string       `json:"category"`
	Depth    int          `json:"depth"`
	Payload  string       `json:"payload"`
}

// Bridge fans compiler diagnostics and trace events out to an LSP client
// for one open document. It implements both errors.Sink and trace.Sink so
// a single value can be handed straight to emit.CompileFunction.
type Bridge struct {
	mu  sync.Mutex
	ctx *glsp.Context
	uri protocol.URI

	diagnostics []protocol.Diagnostic
}

// New returns a Bridge that publishes against uri. Its ctx is attached
// later with SetContext, since a Bridge is often constructed before
// the handler has a live connection (e.g. while warming up a table).
func New(uri protocol.URI) *Bridge {
	return &Bridge{uri: uri}
}

// SetContext attaches (or replaces) the live connection a Bridge notifies
// over.
func (b *Bridge) SetContext(ctx *glsp.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctx = ctx
}

// Report implements errors.Sink: it buffers the diagnostic and republishes
// the full set for the document, matching the teacher's full-replace
// publishDiagnostics behavior rather than incremental append.
func (b *Bridge) Report(code cerrors.Code, pos ast.Position, message string, options map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	msg := message
	if msg == "" {
		msg = cerrors.Description(code)
	}

	line := uint32(0)
	if pos.Line > 0 {
		line = uint32(pos.Line - 1)
	}
	col := uint32(0)
	if pos.Column > 0 {
		col = uint32(pos.Column - 1)
	}

	sev := protocol.DiagnosticSeverityError
	b.diagnostics = append(b.diagnostics, protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: &sev,
		Source:   strPtr("watc"),
		Message:  fmt.Sprintf("[%s] %s", code, msg),
	})

	b.publishLocked()
}

// Emit implements trace.Sink: each trace triple is forwarded immediately
// as a $/watcTrace notification rather than buffered, since a client that
// wants tracing wants it live.
func (b *Bridge) Emit(category trace.Category, depth int, payload string) {
	b.mu.Lock()
	ctx, uri := b.ctx, b.uri
	b.mu.Unlock()

	if ctx == nil {
		return
	}
	ctx.Notify(WatcTraceNotification, &TraceNotificationParams{
		URI:      uri,
		Category: string(category),
		Depth:    depth,
		Payload:  payload,
	})
}

// Reset clears buffered diagnostics and republishes an empty set, used
// when a document is about to be recompiled from scratch (e.g. on
// didChange) so stale diagnostics from the previous version don't linger.
func (b *Bridge) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.diagnostics = nil
	b.publishLocked()
}

func (b *Bridge) publishLocked() {
	if b.ctx == nil {
		return
	}
	b.ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         b.uri,
		Diagnostics: b.diagnostics,
	})
}

func strPtr(s string) *string { return &s }
