package tooling

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
)

// CompletionContext describes the context at a completion position
type CompletionContext struct {
	// Kind of completion requested
	Kind CompletionContextKind

	// Typed is the text already typed for the item being completed
	Typed string
}

// CompletionContextKind categorizes the completion context
type CompletionContextKind int

const (
	// CompletionContextUnknown represents an unknown context
	CompletionContextUnknown CompletionContextKind = iota
	// CompletionContextDirective represents a comment that may become a directive
	CompletionContextDirective
	// CompletionContextContainerID represents the argument of a container directive
	CompletionContextContainerID
	// CompletionContextPropertyID represents the argument of a property directive
	CompletionContextPropertyID
	// CompletionContextTag represents the value of a propkit struct tag
	CompletionContextTag
)

// getCompletionContext determines the completion context at a position
func (a *API) getCompletionContext(doc *Document, pos Position) *CompletionContext {
	lines := strings.Split(doc.Content, "\n")
	if pos.Line >= len(lines) {
		return &CompletionContext{Kind: CompletionContextUnknown}
	}

	line := lines[pos.Line]
	if pos.Character > len(line) {
		pos.Character = len(line)
	}

	prefix := line[:pos.Character]
	trimmed := strings.TrimLeft(prefix, " \t")

	// Struct tag value, e.g. `propkit:"read
	tagOpen := "`" + a.config.TagKey + `:"`
	if i := strings.LastIndex(prefix, tagOpen); i >= 0 {
		value := prefix[i+len(tagOpen):]
		if !strings.ContainsAny(value, "\"`") {
			if j := strings.LastIndex(value, ","); j >= 0 {
				value = value[j+1:]
			}
			return &CompletionContext{Kind: CompletionContextTag, Typed: value}
		}
	}

	if rest, ok := strings.CutPrefix(trimmed, ast.DirectivePrefix+ast.DirectiveContainer+" "); ok {
		return &CompletionContext{Kind: CompletionContextContainerID, Typed: rest}
	}
	if rest, ok := strings.CutPrefix(trimmed, ast.DirectivePrefix+ast.DirectiveProperty+" "); ok {
		return &CompletionContext{Kind: CompletionContextPropertyID, Typed: rest}
	}

	// Trailing comment after a field, e.g. `Width float64 //propkit:pro`
	if i := strings.Index(trimmed, "//"); i > 0 {
		trimmed = trimmed[i:]
	}
	if strings.HasPrefix(trimmed, "//") && !strings.Contains(trimmed, " ") {
		if strings.HasPrefix(ast.DirectivePrefix, trimmed) || strings.HasPrefix(trimmed, ast.DirectivePrefix) {
			return &CompletionContext{Kind: CompletionContextDirective, Typed: trimmed}
		}
	}

	return &CompletionContext{Kind: CompletionContextUnknown}
}

// buildCompletions builds completion items based on context
func (a *API) buildCompletions(doc *Document, context *CompletionContext) []CompletionItem {
	switch context.Kind {
	case CompletionContextDirective:
		return getDirectiveCompletions(context.Typed)

	case CompletionContextTag:
		return a.getTagCompletions(context.Typed)

	case CompletionContextContainerID:
		return getIDCompletions(doc, context.Typed, true)

	case CompletionContextPropertyID:
		return getIDCompletions(doc, context.Typed, false)

	default:
		return nil
	}
}

// getDirectiveCompletions returns directive completions. InsertText holds
// only the part not yet typed.
func getDirectiveCompletions(typed string) []CompletionItem {
	directives := []struct {
		name   string
		detail string
	}{
		{ast.DirectiveContainer, "Declare a property container and its id"},
		{ast.DirectiveProperty, "Register a member under a property id"},
	}

	items := make([]CompletionItem, 0, len(directives))
	for _, d := range directives {
		full := ast.DirectivePrefix + d.name
		if !strings.HasPrefix(full, typed) {
			continue
		}
		items = append(items, CompletionItem{
			Label:         full,
			Kind:          CompletionKindKeyword,
			Detail:        d.detail,
			Documentation: d.detail,
			InsertText:    full[len(typed):] + " ",
		})
	}

	return items
}

// getTagCompletions returns struct tag option completions
func (a *API) getTagCompletions(typed string) []CompletionItem {
	options := []struct {
		name   string
		detail string
	}{
		{"readonly", "Treat the field as an immutable binding"},
	}

	items := make([]CompletionItem, 0, len(options))
	for _, o := range options {
		if !strings.HasPrefix(o.name, strings.TrimSpace(typed)) {
			continue
		}
		items = append(items, CompletionItem{
			Label:         o.name,
			Kind:          CompletionKindProperty,
			Detail:        fmt.Sprintf("%s:%q", a.config.TagKey, o.name),
			Documentation: o.detail,
			InsertText:    o.name,
		})
	}

	return items
}

// getIDCompletions suggests ids already used in the document so spellings
// stay consistent
func getIDCompletions(doc *Document, typed string, container bool) []CompletionItem {
	seen := make(map[string]bool)
	items := make([]CompletionItem, 0)

	for _, sym := range doc.Symbols {
		if (sym.Kind == SymbolKindContainer) != container || sym.ID == "" || seen[sym.ID] {
			continue
		}
		if !strings.HasPrefix(sym.ID, typed) {
			continue
		}
		seen[sym.ID] = true

		detail := fmt.Sprintf("used by %s", sym.Name)
		if sym.ContainerName != "" {
			detail = fmt.Sprintf("used by %s.%s", sym.ContainerName, sym.Name)
		}
		items = append(items, CompletionItem{
			Label:      sym.ID,
			Kind:       CompletionKindValue,
			Detail:     detail,
			InsertText: sym.ID[len(typed):],
		})
	}

	return items
}
