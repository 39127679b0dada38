package tooling

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/conduit-lang/propkit/internal/compiler/analysis"
	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/runtime/property"
)

// SymbolIndex maintains a searchable index of all symbols across documents
type SymbolIndex struct {
	// symbols maps symbol name to all definitions
	symbols map[string][]*IndexedSymbol
	mutex   sync.RWMutex
}

// IndexedSymbol represents a symbol with its location
type IndexedSymbol struct {
	URI   string
	Range Range
	*Symbol
}

// NewSymbolIndex creates a new symbol index
func NewSymbolIndex() *SymbolIndex {
	return &SymbolIndex{
		symbols: make(map[string][]*IndexedSymbol),
	}
}

// Index adds symbols from a document to the index
func (si *SymbolIndex) Index(uri string, symbols []*Symbol) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	// Remove old symbols from this document
	si.removeDocumentLocked(uri)

	for _, sym := range symbols {
		indexed := &IndexedSymbol{
			URI:    uri,
			Range:  sym.Range,
			Symbol: sym,
		}

		si.symbols[sym.Name] = append(si.symbols[sym.Name], indexed)
	}
}

// RemoveDocument removes all symbols from a document
func (si *SymbolIndex) RemoveDocument(uri string) {
	si.mutex.Lock()
	defer si.mutex.Unlock()

	si.removeDocumentLocked(uri)
}

func (si *SymbolIndex) removeDocumentLocked(uri string) {
	for name, syms := range si.symbols {
		filtered := make([]*IndexedSymbol, 0, len(syms))
		for _, sym := range syms {
			if sym.URI != uri {
				filtered = append(filtered, sym)
			}
		}
		if len(filtered) > 0 {
			si.symbols[name] = filtered
		} else {
			delete(si.symbols, name)
		}
	}
}

// FindDefinition finds the definition of a symbol by name, preferring
// container types over properties of the same name
func (si *SymbolIndex) FindDefinition(name string) *IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	syms, ok := si.symbols[name]
	if !ok || len(syms) == 0 {
		return nil
	}

	for _, sym := range syms {
		if sym.Kind == SymbolKindContainer {
			return sym
		}
	}

	return syms[0]
}

// FindByKey returns the locations of every symbol with the given id key.
// Containers match containers; either property kind matches properties.
func (si *SymbolIndex) FindByKey(kind SymbolKind, key string) []Location {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	var matches []*IndexedSymbol
	for _, syms := range si.symbols {
		for _, sym := range syms {
			if sym.Key == key && (sym.Kind == SymbolKindContainer) == (kind == SymbolKindContainer) {
				matches = append(matches, sym)
			}
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sortIndexed(matches)
	locations := make([]Location, len(matches))
	for i, sym := range matches {
		locations[i] = Location{URI: sym.URI, Range: sym.Range}
	}
	return locations
}

// SearchSymbols searches for symbols matching a query across all documents.
// A query matches a symbol's name or its id key, case-insensitively.
func (si *SymbolIndex) SearchSymbols(query string) []*IndexedSymbol {
	si.mutex.RLock()
	defer si.mutex.RUnlock()

	query = strings.ToLower(query)
	result := make([]*IndexedSymbol, 0)

	for name, syms := range si.symbols {
		for _, sym := range syms {
			if query == "" ||
				strings.Contains(strings.ToLower(name), query) ||
				strings.Contains(strings.ToLower(sym.Key), query) {
				result = append(result, sym)
			}
		}
	}

	sortIndexed(result)
	return result
}

func sortIndexed(syms []*IndexedSymbol) {
	sort.SliceStable(syms, func(i, j int) bool {
		if syms[i].URI != syms[j].URI {
			return syms[i].URI < syms[j].URI
		}
		if syms[i].Range.Start.Line != syms[j].Range.Start.Line {
			return syms[i].Range.Start.Line < syms[j].Range.Start.Line
		}
		return syms[i].Range.Start.Character < syms[j].Range.Start.Character
	})
}

// extractSymbols extracts container and property symbols from the analysis
// results of a document. Aborted containers contribute no symbols.
func extractSymbols(doc *Document) []*Symbol {
	symbols := make([]*Symbol, 0)

	for _, r := range doc.Results {
		if !r.Emittable() {
			continue
		}
		symbols = append(symbols, containerSymbol(r))
		for _, d := range r.Registry.Descriptors() {
			if member := r.Decl.Member(d.Ref.Member); member != nil {
				symbols = append(symbols, propertySymbol(r.Decl.Name, member, d))
			}
		}
	}

	return symbols
}

func containerSymbol(r *analysis.Result) *Symbol {
	decl := r.Decl
	sym := &Symbol{
		Name:   decl.Name,
		Kind:   SymbolKindContainer,
		Range:  nameRange(decl.Location(), decl.Name),
		Type:   "struct",
		Key:    r.Container.ID.Key,
		ID:     r.Container.ID.Expr,
		Detail: fmt.Sprintf("container %s (%d properties)", r.Container.ID.Expr, r.Registry.Len()),
	}
	if a := decl.Container(); a != nil {
		sym.DirectiveRange = rangeOf(a.Location(), a.End())
	}
	return sym
}

func propertySymbol(container string, member *ast.MemberDecl, d *analysis.PropertyDescriptor) *Symbol {
	kind := SymbolKindStoredProperty
	if d.Source == property.Computed {
		kind = SymbolKindComputedProperty
	}
	sym := &Symbol{
		Name:          member.Name,
		Kind:          kind,
		Range:         nameRange(member.Location(), member.Name),
		Type:          d.Type,
		Key:           d.ID.Key,
		ID:            d.ID.Expr,
		ContainerName: container,
		Detail:        fmt.Sprintf("property %s: %s (%s, %s)", d.ID.Expr, d.Kind, d.Source, d.Access),
		Descriptor:    d,
	}
	if d.Annotation != nil {
		sym.DirectiveRange = rangeOf(d.Annotation.Location(), d.Annotation.End())
	}
	return sym
}

// findSymbolAtPosition finds the symbol whose name or directive covers pos
func findSymbolAtPosition(doc *Document, pos Position) *Symbol {
	for _, sym := range doc.Symbols {
		if positionInRange(pos, sym.Range) || positionInRange(pos, sym.DirectiveRange) {
			return sym
		}
	}
	return nil
}

// positionInRange checks if a position is within a range.
// The zero range matches nothing.
func positionInRange(pos Position, r Range) bool {
	if r == (Range{}) {
		return false
	}

	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}

	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}

	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}

	return true
}

// rangeOf converts 1-based source locations to a zero-based range
func rangeOf(start, end ast.SourceLocation) Range {
	if !start.IsValid() {
		return Range{}
	}
	if !end.IsValid() {
		end = start
	}
	return Range{
		Start: Position{Line: start.Line - 1, Character: start.Column - 1},
		End:   Position{Line: end.Line - 1, Character: end.Column - 1},
	}
}

// nameRange covers an identifier starting at loc
func nameRange(loc ast.SourceLocation, name string) Range {
	if !loc.IsValid() {
		return Range{}
	}
	start := Position{Line: loc.Line - 1, Character: loc.Column - 1}
	return Range{Start: start, End: Position{Line: start.Line, Character: start.Character + len(name)}}
}

// baseTypeName strips pointer, slice and package qualifiers from a type
func baseTypeName(typ string) string {
	typ = strings.TrimLeft(typ, "*[]")
	if i := strings.LastIndex(typ, "."); i >= 0 {
		typ = typ[i+1:]
	}
	return typ
}
