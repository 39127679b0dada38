// Package tooling provides a programmatic API for IDE integration via LSP.
// It parses open Go documents, runs propkit analysis on them and answers
// position-based queries in a thread-safe manner.
package tooling

import (
	stderrors "errors"
	"fmt"
	"go/scanner"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/conduit-lang/propkit/internal/compiler/analysis"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
	"github.com/conduit-lang/propkit/internal/compiler/frontend"
	"github.com/conduit-lang/propkit/internal/compiler/typekind"
)

// DiagnosticSource names propkit in editor diagnostics
const DiagnosticSource = "propkit"

// API provides thread-safe access to propkit analysis for IDE integration.
// Documents live in a bounded LRU cache; evicted documents leave the symbol
// index as well.
type API struct {
	documents   *lru.Cache[string, *Document]
	symbolIndex *SymbolIndex
	analyzer    *analysis.Analyzer
	config      *Config
}

// Config holds configuration for the tooling API
type Config struct {
	// CacheSize limits the number of documents cached in memory
	CacheSize int

	// TagKey is the struct tag key holding field options
	TagKey string

	// Qualifiers are stripped before type classification
	Qualifiers []string
}

// Document represents a cached document with its analysis
type Document struct {
	// URI is the document identifier (typically a file path)
	URI string

	// Content is the raw source code
	Content string

	// Version tracks document changes (incremented on each update)
	Version int

	// File holds the declarations found in the document, nil on parse failure
	File *frontend.File

	// ParseError is the Go syntax error, if any
	ParseError error

	// Results holds one analysis result per declaration
	Results []*analysis.Result

	// Symbols is a flattened list of all symbols in the document
	Symbols []*Symbol
}

// Position represents a position in a document (zero-based for LSP compatibility)
type Position struct {
	Line      int // Zero-based line number
	Character int // Zero-based byte offset in the line
}

// Range represents a range in a document
type Range struct {
	Start Position
	End   Position
}

// Location represents a source location with URI and range
type Location struct {
	URI   string
	Range Range
}

// Symbol represents a container type or one of its properties
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Range Range

	// DirectiveRange covers the annotation comment that declared the symbol
	DirectiveRange Range

	// Type is the member's declared type; "struct" for containers
	Type string

	// Key is the identifier key of the container or property id
	Key string

	// ID is the identifier expression as written
	ID string

	// For properties: the owning container type
	ContainerName string

	// Detail provides additional information
	Detail string

	// Descriptor is set for property symbols
	Descriptor *analysis.PropertyDescriptor
}

// SymbolKind categorizes symbols for IDE display
type SymbolKind int

const (
	// SymbolKindContainer represents a property container type
	SymbolKindContainer SymbolKind = iota
	// SymbolKindStoredProperty represents a property backed by a field
	SymbolKindStoredProperty
	// SymbolKindComputedProperty represents a property backed by accessors
	SymbolKindComputedProperty
)

// Hover represents hover information for a symbol
type Hover struct {
	// Contents is the hover text (markdown formatted)
	Contents string

	// Range is the range of the symbol
	Range Range
}

// CompletionItem represents a completion suggestion
type CompletionItem struct {
	// Label is the text to display
	Label string

	// Kind categorizes the completion
	Kind CompletionKind

	// Detail provides additional information
	Detail string

	// Documentation provides help text
	Documentation string

	// InsertText is the text to insert (if different from label)
	InsertText string
}

// CompletionKind categorizes completion items
type CompletionKind int

const (
	// CompletionKindKeyword represents a directive name
	CompletionKindKeyword CompletionKind = iota
	// CompletionKindProperty represents a struct tag option
	CompletionKindProperty
	// CompletionKindValue represents an identifier value
	CompletionKindValue
)

// Diagnostic represents a compilation error or note
type Diagnostic struct {
	Range    Range
	Severity DiagnosticSeverity
	Code     string
	Message  string
	Source   string

	// Related points at the other half of a paired diagnostic
	Related []Location
}

// DiagnosticSeverity indicates the severity of a diagnostic
type DiagnosticSeverity int

const (
	// DiagnosticSeverityError represents an error diagnostic
	DiagnosticSeverityError DiagnosticSeverity = iota
	// DiagnosticSeverityWarning represents a warning diagnostic
	DiagnosticSeverityWarning
	// DiagnosticSeverityInfo represents an informational diagnostic
	DiagnosticSeverityInfo
	// DiagnosticSeverityHint represents a hint diagnostic
	DiagnosticSeverityHint
)

// NewAPI creates a new tooling API instance
func NewAPI() *API {
	return NewAPIWithConfig(&Config{CacheSize: 100})
}

// NewAPIWithConfig creates a new tooling API with custom configuration
func NewAPIWithConfig(config *Config) *API {
	if config == nil {
		config = &Config{}
	}
	if config.CacheSize <= 0 {
		config.CacheSize = 100
	}
	if config.TagKey == "" {
		config.TagKey = frontend.DefaultTagKey
	}
	if config.Qualifiers == nil {
		config.Qualifiers = typekind.DefaultQualifiers
	}

	a := &API{
		symbolIndex: NewSymbolIndex(),
		analyzer:    analysis.New(typekind.New(config.Qualifiers...)),
		config:      config,
	}
	// size is positive, so construction cannot fail
	a.documents, _ = lru.NewWithEvict[string, *Document](config.CacheSize, func(uri string, _ *Document) {
		a.symbolIndex.RemoveDocument(uri)
	})
	return a
}

// ParseFile parses and analyzes a document and caches it
func (a *API) ParseFile(uri, content string) (*Document, error) {
	doc := a.analyze(uri, content)
	doc.Version = 1
	a.store(doc)
	return doc, nil
}

// UpdateDocument updates an existing document with new content
func (a *API) UpdateDocument(uri, content string, version int) (*Document, error) {
	if old, ok := a.documents.Get(uri); ok && old.Content == content {
		old.Version = version
		return old, nil
	}

	doc := a.analyze(uri, content)
	doc.Version = version
	a.store(doc)
	return doc, nil
}

func (a *API) store(doc *Document) {
	a.documents.Add(doc.URI, doc)
	a.symbolIndex.Index(doc.URI, doc.Symbols)
}

// analyze builds a document without touching the cache
func (a *API) analyze(uri, content string) *Document {
	doc := &Document{
		URI:     uri,
		Content: content,
		Symbols: make([]*Symbol, 0),
	}

	file, err := frontend.ParseSource(uri, content, "", frontend.Options{TagKey: a.config.TagKey})
	if err != nil {
		doc.ParseError = err
		return doc
	}
	doc.File = file

	doc.Results = make([]*analysis.Result, 0, len(file.Decls))
	for _, decl := range file.Decls {
		doc.Results = append(doc.Results, a.analyzer.Analyze(decl))
	}
	doc.Symbols = extractSymbols(doc)
	return doc
}

// GetDocument retrieves a cached document
func (a *API) GetDocument(uri string) (*Document, bool) {
	return a.documents.Get(uri)
}

// CloseDocument removes a document from the cache
func (a *API) CloseDocument(uri string) {
	if !a.documents.Remove(uri) {
		a.symbolIndex.RemoveDocument(uri)
	}
}

// GetDiagnostics returns diagnostics for a document
func (a *API) GetDiagnostics(uri string) []Diagnostic {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil
	}

	diagnostics := make([]Diagnostic, 0)

	if doc.ParseError != nil {
		var list scanner.ErrorList
		if stderrors.As(doc.ParseError, &list) {
			for _, e := range list {
				pos := Position{Line: e.Pos.Line - 1, Character: e.Pos.Column - 1}
				diagnostics = append(diagnostics, Diagnostic{
					Range:    Range{Start: pos, End: Position{Line: pos.Line, Character: pos.Character + 1}},
					Severity: DiagnosticSeverityError,
					Code:     "parse_error",
					Message:  e.Msg,
					Source:   DiagnosticSource,
				})
			}
		} else {
			diagnostics = append(diagnostics, Diagnostic{
				Severity: DiagnosticSeverityError,
				Code:     "parse_error",
				Message:  doc.ParseError.Error(),
				Source:   DiagnosticSource,
			})
		}
		return diagnostics
	}

	for _, r := range doc.Results {
		for i, d := range r.Diagnostics {
			diag := Diagnostic{
				Range:    rangeOf(d.Location, d.End()),
				Severity: diagnosticSeverity(d),
				Code:     d.Code.String(),
				Message:  d.Message,
				Source:   DiagnosticSource,
			}
			// duplicate errors are immediately followed by their origin note
			if d.Code == errors.CodeDuplicateMemberID && i+1 < len(r.Diagnostics) {
				origin := r.Diagnostics[i+1]
				diag.Related = []Location{{URI: uri, Range: rangeOf(origin.Location, origin.End())}}
			}
			diagnostics = append(diagnostics, diag)
		}
	}

	return diagnostics
}

// GetHover returns hover information for a position in a document.
// Returns (nil, nil) if no symbol is found at the position.
func (a *API) GetHover(uri string, pos Position) (*Hover, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	symbol := findSymbolAtPosition(doc, pos)
	if symbol == nil {
		return nil, nil //nolint:nilnil // nil hover is valid when no symbol at position
	}

	return buildHover(symbol), nil
}

// GetCompletions returns completion items for a position in a document
func (a *API) GetCompletions(uri string, pos Position) ([]CompletionItem, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	context := a.getCompletionContext(doc, pos)

	return a.buildCompletions(doc, context), nil
}

// GetDefinition returns the definition location of a symbol at a position.
// On a directive it resolves to the annotated declaration; on a member whose
// type is a known container it resolves to that container.
// Returns (nil, nil) if no symbol is found at the position.
func (a *API) GetDefinition(uri string, pos Position) (*Location, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	symbol := findSymbolAtPosition(doc, pos)
	if symbol == nil {
		return nil, nil //nolint:nilnil // nil location is valid when no symbol at position
	}

	if symbol.Kind != SymbolKindContainer && symbol.Type != "" && !positionInRange(pos, symbol.DirectiveRange) {
		if def := a.symbolIndex.FindDefinition(baseTypeName(symbol.Type)); def != nil && def.Kind == SymbolKindContainer {
			return &Location{URI: def.URI, Range: def.Range}, nil
		}
	}

	return &Location{URI: uri, Range: symbol.Range}, nil
}

// GetReferences returns every property symbol sharing the id key of the
// property at a position, across open documents
func (a *API) GetReferences(uri string, pos Position) ([]Location, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	symbol := findSymbolAtPosition(doc, pos)
	if symbol == nil {
		return []Location{}, nil
	}

	refs := a.symbolIndex.FindByKey(symbol.Kind, symbol.Key)
	if refs == nil {
		return []Location{}, nil
	}

	return refs, nil
}

// GetDocumentSymbols returns all symbols in a document
func (a *API) GetDocumentSymbols(uri string) ([]*Symbol, error) {
	doc, exists := a.GetDocument(uri)
	if !exists {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	return doc.Symbols, nil
}

// SearchSymbols searches symbols across all open documents
func (a *API) SearchSymbols(query string) []*IndexedSymbol {
	return a.symbolIndex.SearchSymbols(query)
}

// Helper functions

func diagnosticSeverity(d *errors.Diagnostic) DiagnosticSeverity {
	if d.Severity == errors.SeverityNote {
		return DiagnosticSeverityInfo
	}
	return DiagnosticSeverityError
}
