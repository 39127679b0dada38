package tooling

import (
	"strings"
	"testing"
)

const shapesSource = `package shapes

//propkit:container "shape"
type Shape struct {
	//propkit:property "w"
	Width float64
	//propkit:property "w"
	Height float64
	Origin Point //propkit:property "origin"
}

//propkit:container "point"
type Point struct {
	//propkit:property "x"
	X float64
}
`

func TestAPICreation(t *testing.T) {
	api := NewAPI()
	if api == nil {
		t.Fatal("NewAPI() returned nil")
	}

	if api.documents == nil {
		t.Error("API document cache is nil")
	}

	if api.symbolIndex == nil {
		t.Error("API symbolIndex is nil")
	}

	if api.config == nil {
		t.Error("API config is nil")
	}
}

func TestAPIWithCustomConfig(t *testing.T) {
	api := NewAPIWithConfig(&Config{CacheSize: 50, TagKey: "props"})
	if api == nil {
		t.Fatal("NewAPIWithConfig() returned nil")
	}

	if api.config.CacheSize != 50 {
		t.Errorf("Expected CacheSize=50, got %d", api.config.CacheSize)
	}

	if api.config.TagKey != "props" {
		t.Errorf("Expected TagKey='props', got '%s'", api.config.TagKey)
	}

	defaults := NewAPIWithConfig(nil)
	if defaults.config.CacheSize != 100 {
		t.Errorf("Expected default CacheSize=100, got %d", defaults.config.CacheSize)
	}
}

func TestParseFile(t *testing.T) {
	api := NewAPI()

	doc, err := api.ParseFile("shapes.go", shapesSource)
	if err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	if doc.URI != "shapes.go" {
		t.Errorf("Expected URI='shapes.go', got '%s'", doc.URI)
	}

	if doc.ParseError != nil {
		t.Fatalf("Unexpected parse error: %v", doc.ParseError)
	}

	if len(doc.Results) != 2 {
		t.Fatalf("Expected 2 analysis results, got %d", len(doc.Results))
	}

	// Shape, Width, Origin, Point, X; Height lost its duplicate id
	if len(doc.Symbols) != 5 {
		t.Fatalf("Expected 5 symbols, got %d", len(doc.Symbols))
	}

	shape := doc.Symbols[0]
	if shape.Name != "Shape" || shape.Kind != SymbolKindContainer {
		t.Errorf("Expected container Shape, got %s (%d)", shape.Name, shape.Kind)
	}
	if shape.Range.Start != (Position{Line: 3, Character: 5}) {
		t.Errorf("Unexpected Shape range: %+v", shape.Range)
	}

	if _, ok := api.GetDocument("shapes.go"); !ok {
		t.Error("Document was not cached")
	}
}

func TestUpdateDocument(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	doc, err := api.UpdateDocument("shapes.go", shapesSource, 2)
	if err != nil {
		t.Fatalf("UpdateDocument() failed: %v", err)
	}
	if doc.Version != 2 {
		t.Errorf("Expected version 2, got %d", doc.Version)
	}

	updated := strings.Replace(shapesSource, `"origin"`, `"o"`, 1)
	doc, err = api.UpdateDocument("shapes.go", updated, 3)
	if err != nil {
		t.Fatalf("UpdateDocument() failed: %v", err)
	}
	if doc.Version != 3 {
		t.Errorf("Expected version 3, got %d", doc.Version)
	}

	found := false
	for _, sym := range doc.Symbols {
		if sym.Name == "Origin" && sym.Key == "o" {
			found = true
		}
	}
	if !found {
		t.Error("Expected Origin to be re-registered under 'o'")
	}
}

func TestCloseDocument(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	api.CloseDocument("shapes.go")

	if _, ok := api.GetDocument("shapes.go"); ok {
		t.Error("Document still cached after close")
	}
	if def := api.symbolIndex.FindDefinition("Shape"); def != nil {
		t.Error("Symbols still indexed after close")
	}
}

func TestCacheEviction(t *testing.T) {
	api := NewAPIWithConfig(&Config{CacheSize: 1})

	if _, err := api.ParseFile("a.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	if _, err := api.ParseFile("b.go", "package shapes\n"); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	if _, ok := api.GetDocument("a.go"); ok {
		t.Error("Expected a.go to be evicted")
	}
	if def := api.symbolIndex.FindDefinition("Shape"); def != nil {
		t.Error("Evicted document symbols still indexed")
	}
}

func TestGetDiagnostics(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	diags := api.GetDiagnostics("shapes.go")
	if len(diags) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", len(diags))
	}

	dup := diags[0]
	if dup.Code != "propkit.duplicate_member_id" {
		t.Errorf("Expected duplicate_member_id, got %s", dup.Code)
	}
	if dup.Severity != DiagnosticSeverityError {
		t.Errorf("Expected error severity, got %d", dup.Severity)
	}
	if dup.Range.Start.Line != 6 {
		t.Errorf("Expected duplicate on line 6, got %d", dup.Range.Start.Line)
	}
	if len(dup.Related) != 1 || dup.Related[0].Range.Start.Line != 4 {
		t.Errorf("Expected related origin on line 4, got %+v", dup.Related)
	}
	if dup.Source != DiagnosticSource {
		t.Errorf("Expected source %s, got %s", DiagnosticSource, dup.Source)
	}

	note := diags[1]
	if note.Severity != DiagnosticSeverityInfo {
		t.Errorf("Expected info severity for origin note, got %d", note.Severity)
	}

	if diags := api.GetDiagnostics("missing.go"); diags != nil {
		t.Error("Expected nil diagnostics for unknown document")
	}
}

func TestGetDiagnostics_ParseError(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("broken.go", "package x\n\nfunc (\n"); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	diags := api.GetDiagnostics("broken.go")
	if len(diags) == 0 {
		t.Fatal("Expected parse diagnostics")
	}
	for _, d := range diags {
		if d.Code != "parse_error" {
			t.Errorf("Expected parse_error, got %s", d.Code)
		}
	}
}

func TestGetDiagnostics_MissingContainer(t *testing.T) {
	api := NewAPI()
	src := `package shapes

type Orphan struct {
	//propkit:property "x"
	X int
}
`
	if _, err := api.ParseFile("orphan.go", src); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	diags := api.GetDiagnostics("orphan.go")
	if len(diags) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Code != "propkit.missing_container_id" {
		t.Errorf("Expected missing_container_id, got %s", diags[0].Code)
	}

	doc, _ := api.GetDocument("orphan.go")
	if len(doc.Symbols) != 0 {
		t.Errorf("Expected no symbols for aborted container, got %d", len(doc.Symbols))
	}
}

func TestGetHover(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	hover, err := api.GetHover("shapes.go", Position{Line: 5, Character: 3})
	if err != nil {
		t.Fatalf("GetHover() failed: %v", err)
	}
	if hover == nil {
		t.Fatal("Expected hover on Width")
	}
	for _, want := range []string{"Width float64", "`\"w\"`", "`float`", "stored", "readWrite", "`Shape`"} {
		if !strings.Contains(hover.Contents, want) {
			t.Errorf("Hover missing %q:\n%s", want, hover.Contents)
		}
	}

	// the directive comment hovers as its member
	hover, err = api.GetHover("shapes.go", Position{Line: 4, Character: 5})
	if err != nil {
		t.Fatalf("GetHover() failed: %v", err)
	}
	if hover == nil || !strings.Contains(hover.Contents, "Width float64") {
		t.Error("Expected directive hover to describe Width")
	}

	hover, err = api.GetHover("shapes.go", Position{Line: 3, Character: 7})
	if err != nil {
		t.Fatalf("GetHover() failed: %v", err)
	}
	if hover == nil || !strings.Contains(hover.Contents, "Property container") {
		t.Error("Expected container hover on Shape")
	}

	// Height was dropped as a duplicate
	hover, err = api.GetHover("shapes.go", Position{Line: 7, Character: 3})
	if err != nil {
		t.Fatalf("GetHover() failed: %v", err)
	}
	if hover != nil {
		t.Errorf("Expected no hover on Height, got %q", hover.Contents)
	}

	if _, err := api.GetHover("missing.go", Position{}); err == nil {
		t.Error("Expected error for unknown document")
	}
}

func TestGetDefinition(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	// Origin's type is the Point container
	loc, err := api.GetDefinition("shapes.go", Position{Line: 8, Character: 2})
	if err != nil {
		t.Fatalf("GetDefinition() failed: %v", err)
	}
	if loc == nil {
		t.Fatal("Expected definition for Origin")
	}
	if loc.Range.Start != (Position{Line: 12, Character: 5}) {
		t.Errorf("Expected Point definition, got %+v", loc.Range)
	}

	// a directive resolves to its member
	loc, err = api.GetDefinition("shapes.go", Position{Line: 13, Character: 4})
	if err != nil {
		t.Fatalf("GetDefinition() failed: %v", err)
	}
	if loc == nil || loc.Range.Start != (Position{Line: 14, Character: 1}) {
		t.Errorf("Expected X definition, got %+v", loc)
	}

	loc, err = api.GetDefinition("shapes.go", Position{Line: 0, Character: 0})
	if err != nil {
		t.Fatalf("GetDefinition() failed: %v", err)
	}
	if loc != nil {
		t.Error("Expected nil definition on package clause")
	}
}

func TestGetReferences(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}
	other := `package shapes

//propkit:container "rect"
type Rect struct {
	//propkit:property "w"
	W float64
}
`
	if _, err := api.ParseFile("rect.go", other); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	refs, err := api.GetReferences("shapes.go", Position{Line: 5, Character: 2})
	if err != nil {
		t.Fatalf("GetReferences() failed: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 references to 'w', got %d", len(refs))
	}
	if refs[0].URI != "rect.go" || refs[1].URI != "shapes.go" {
		t.Errorf("Unexpected reference order: %+v", refs)
	}

	refs, err = api.GetReferences("shapes.go", Position{Line: 1, Character: 0})
	if err != nil {
		t.Fatalf("GetReferences() failed: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("Expected no references, got %d", len(refs))
	}
}

func TestGetDocumentSymbols(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	symbols, err := api.GetDocumentSymbols("shapes.go")
	if err != nil {
		t.Fatalf("GetDocumentSymbols() failed: %v", err)
	}

	var names []string
	for _, s := range symbols {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "Shape,Width,Origin,Point,X" {
		t.Errorf("Unexpected symbols: %s", got)
	}

	if _, err := api.GetDocumentSymbols("missing.go"); err == nil {
		t.Error("Expected error for unknown document")
	}
}

func TestGetCompletions(t *testing.T) {
	api := NewAPI()
	src := `package shapes

//propkit:container "shape"
type Shape struct {
	//propk
	Width float64 ` + "`propkit:\"re\"`" + `
}
`
	if _, err := api.ParseFile("c.go", src); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	items, err := api.GetCompletions("c.go", Position{Line: 4, Character: 8})
	if err != nil {
		t.Fatalf("GetCompletions() failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 directive completions, got %d", len(items))
	}
	if items[0].Label != "//propkit:container" || items[0].InsertText != "it:container " {
		t.Errorf("Unexpected directive completion: %+v", items[0])
	}

	items, err = api.GetCompletions("c.go", Position{Line: 5, Character: 27})
	if err != nil {
		t.Fatalf("GetCompletions() failed: %v", err)
	}
	if len(items) != 1 || items[0].Label != "readonly" {
		t.Errorf("Expected readonly tag completion, got %+v", items)
	}

	items, err = api.GetCompletions("c.go", Position{Line: 0, Character: 3})
	if err != nil {
		t.Fatalf("GetCompletions() failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no completions on package clause, got %d", len(items))
	}
}

func TestGetCompletions_PropertyIDs(t *testing.T) {
	api := NewAPI()
	if _, err := api.ParseFile("shapes.go", shapesSource); err != nil {
		t.Fatalf("ParseFile() failed: %v", err)
	}

	items, err := api.GetCompletions("shapes.go", Position{Line: 6, Character: 21})
	if err != nil {
		t.Fatalf("GetCompletions() failed: %v", err)
	}

	labels := make(map[string]string)
	for _, item := range items {
		labels[item.Label] = item.InsertText
	}
	if len(labels) != 3 {
		t.Fatalf("Expected 3 id completions, got %v", labels)
	}
	if labels[`"w"`] != `w"` {
		t.Errorf("Expected insert text 'w\"', got %q", labels[`"w"`])
	}
}
