package lsp

import (
	"context"
	"encoding/json"
	"testing"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

const testURI = "file:///work/shapes.go"

const shapesSource = `package shapes

//propkit:container "shape"
type Shape struct {
	//propkit:property "w"
	Width float64
	//propkit:property "w"
	Height float64
}

//propkit:property "area"
func (s *Shape) Area() float64 { return s.Width * s.Height }
`

// recorder captures what a handler replied
type recorder struct {
	result any
	err    error
}

func (r *recorder) reply(_ context.Context, result any, err error) error {
	r.result = result
	r.err = err
	return nil
}

// call dispatches a request through the server's handler
func call(t *testing.T, s *Server, method string, params any) *recorder {
	t.Helper()
	req, err := jsonrpc2.NewCall(jsonrpc2.NewNumberID(1), method, params)
	if err != nil {
		t.Fatalf("NewCall(%s) failed: %v", method, err)
	}
	rec := &recorder{}
	if err := s.handler()(context.Background(), rec.reply, req); err != nil {
		t.Fatalf("handler(%s) failed: %v", method, err)
	}
	return rec
}

// notify dispatches a notification through the server's handler
func notify(t *testing.T, s *Server, method string, params any) *recorder {
	t.Helper()
	req, err := jsonrpc2.NewNotification(method, params)
	if err != nil {
		t.Fatalf("NewNotification(%s) failed: %v", method, err)
	}
	rec := &recorder{}
	if err := s.handler()(context.Background(), rec.reply, req); err != nil {
		t.Fatalf("handler(%s) failed: %v", method, err)
	}
	return rec
}

func openShapes(t *testing.T, s *Server) {
	t.Helper()
	rec := notify(t, s, protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        testURI,
			LanguageID: "go",
			Version:    1,
			Text:       shapesSource,
		},
	})
	if rec.err != nil {
		t.Fatalf("didOpen failed: %v", rec.err)
	}
}

func position(line, character uint32) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Position:     protocol.Position{Line: line, Character: character},
	}
}

func rawParams(s string) json.RawMessage {
	return json.RawMessage(s)
}
