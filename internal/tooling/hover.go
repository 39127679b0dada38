package tooling

import (
	"fmt"
	"strings"
)

// buildHover creates hover information for a symbol
func buildHover(symbol *Symbol) *Hover {
	var content strings.Builder

	content.WriteString("```go\n")

	switch symbol.Kind {
	case SymbolKindContainer:
		content.WriteString(fmt.Sprintf("type %s struct", symbol.Name))
	default:
		content.WriteString(fmt.Sprintf("%s %s", symbol.Name, symbol.Type))
	}

	content.WriteString("\n```\n\n")

	switch symbol.Kind {
	case SymbolKindContainer:
		content.WriteString("**Property container**\n\n")
		content.WriteString(fmt.Sprintf("*Id:* `%s`\n\n", symbol.ID))
		content.WriteString(symbol.Detail)
		content.WriteString("\n")

	case SymbolKindStoredProperty, SymbolKindComputedProperty:
		content.WriteString("**Property**\n\n")
		content.WriteString(fmt.Sprintf("*In container:* `%s`\n\n", symbol.ContainerName))
		content.WriteString("---\n\n")
		content.WriteString(fmt.Sprintf("- *Id:* `%s`\n", symbol.ID))
		if d := symbol.Descriptor; d != nil {
			content.WriteString(fmt.Sprintf("- *Kind:* `%s`\n", d.Kind))
			content.WriteString(fmt.Sprintf("- *Source:* %s\n", d.Source))
			content.WriteString(fmt.Sprintf("- *Access:* %s\n", d.Access))
		}
	}

	return &Hover{
		Contents: content.String(),
		Range:    symbol.Range,
	}
}
