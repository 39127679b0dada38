package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"

	"github.com/conduit-lang/propkit/internal/tooling"
)

func (s *Server) completion(_ context.Context, params *protocol.CompletionParams) (any, error) {
	completions, err := s.api.GetCompletions(string(params.TextDocument.URI), convertPosition(params.Position))
	if err != nil {
		return nil, fmt.Errorf("completion: %w", err)
	}

	list := protocol.CompletionList{Items: make([]protocol.CompletionItem, 0, len(completions))}
	for _, c := range completions {
		list.Items = append(list.Items, protocol.CompletionItem{
			Label:            c.Label,
			Kind:             convertCompletionKind(c.Kind),
			Detail:           c.Detail,
			Documentation:    protocol.MarkupContent{Kind: protocol.Markdown, Value: c.Documentation},
			InsertText:       c.InsertText,
			InsertTextFormat: protocol.InsertTextFormatPlainText,
		})
	}
	return list, nil
}

// hover replies null when the position has nothing to describe
func (s *Server) hover(_ context.Context, params *protocol.HoverParams) (any, error) {
	h, err := s.api.GetHover(string(params.TextDocument.URI), convertPosition(params.Position))
	if err != nil {
		return nil, fmt.Errorf("hover: %w", err)
	}
	if h == nil {
		return nil, nil
	}

	rng := convertRange(h.Range)
	return protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: h.Contents},
		Range:    &rng,
	}, nil
}

func (s *Server) definition(_ context.Context, params *protocol.DefinitionParams) (any, error) {
	loc, err := s.api.GetDefinition(string(params.TextDocument.URI), convertPosition(params.Position))
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}
	if loc == nil {
		return nil, nil
	}
	return convertLocation(*loc), nil
}

func (s *Server) references(_ context.Context, params *protocol.ReferenceParams) (any, error) {
	refs, err := s.api.GetReferences(string(params.TextDocument.URI), convertPosition(params.Position))
	if err != nil {
		return nil, fmt.Errorf("references: %w", err)
	}

	locations := make([]protocol.Location, 0, len(refs))
	for _, ref := range refs {
		locations = append(locations, convertLocation(ref))
	}
	return locations, nil
}

// documentSymbol nests properties under their container
func (s *Server) documentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) (any, error) {
	symbols, err := s.api.GetDocumentSymbols(string(params.TextDocument.URI))
	if err != nil {
		return nil, fmt.Errorf("document symbols: %w", err)
	}
	return nestSymbols(symbols), nil
}

// nestSymbols builds the symbol tree. Symbols arrive as each container
// followed by its properties.
func nestSymbols(symbols []*tooling.Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0)
	for _, sym := range symbols {
		rng := convertRange(sym.Range)
		node := protocol.DocumentSymbol{
			Name:           sym.Name,
			Kind:           convertSymbolKind(sym.Kind),
			Detail:         sym.Detail,
			Range:          rng,
			SelectionRange: rng,
		}
		if sym.Kind != tooling.SymbolKindContainer && len(out) > 0 {
			parent := &out[len(out)-1]
			parent.Children = append(parent.Children, node)
			continue
		}
		out = append(out, node)
	}
	return out
}

func (s *Server) workspaceSymbol(_ context.Context, params *protocol.WorkspaceSymbolParams) (any, error) {
	indexed := s.api.SearchSymbols(params.Query)

	symbols := make([]protocol.SymbolInformation, 0, len(indexed))
	for _, sym := range indexed {
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          sym.Symbol.Name,
			Kind:          convertSymbolKind(sym.Symbol.Kind),
			Location:      convertLocation(tooling.Location{URI: sym.URI, Range: sym.Range}),
			ContainerName: sym.Symbol.ContainerName,
		})
	}
	return symbols, nil
}

func convertPosition(p protocol.Position) tooling.Position {
	return tooling.Position{Line: int(p.Line), Character: int(p.Character)}
}

func convertRange(r tooling.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(r.Start.Line), Character: uint32(r.Start.Character)},
		End:   protocol.Position{Line: uint32(r.End.Line), Character: uint32(r.End.Character)},
	}
}

func convertLocation(l tooling.Location) protocol.Location {
	return protocol.Location{URI: protocol.DocumentURI(l.URI), Range: convertRange(l.Range)}
}

func convertCompletionKind(kind tooling.CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case tooling.CompletionKindKeyword:
		return protocol.CompletionItemKindKeyword
	case tooling.CompletionKindProperty:
		return protocol.CompletionItemKindProperty
	case tooling.CompletionKindValue:
		return protocol.CompletionItemKindValue
	default:
		return protocol.CompletionItemKindText
	}
}

func convertSymbolKind(kind tooling.SymbolKind) protocol.SymbolKind {
	switch kind {
	case tooling.SymbolKindContainer:
		return protocol.SymbolKindStruct
	case tooling.SymbolKindStoredProperty:
		return protocol.SymbolKindField
	case tooling.SymbolKindComputedProperty:
		return protocol.SymbolKindProperty
	default:
		return protocol.SymbolKindObject
	}
}
