package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
	"github.com/conduit-lang/propkit/runtime/property"
)

func loc(line int) ast.SourceLocation {
	return ast.SourceLocation{File: "shape.go", Line: line, Column: 1}
}

func prop(arg string, line int) *ast.PropertyAnnotation {
	return &ast.PropertyAnnotation{Argument: arg, Loc: loc(line)}
}

func field(name, typ string, mutable bool, annotations ...ast.Annotation) *ast.MemberDecl {
	return &ast.MemberDecl{Name: name, Type: typ, Mutable: mutable, Kind: ast.MemberField, Annotations: annotations}
}

func decl(container string, members ...*ast.MemberDecl) *ast.TypeDecl {
	d := &ast.TypeDecl{Name: "Shape", Struct: true, Members: members, Loc: loc(1)}
	if container != "" {
		d.Annotations = []ast.Annotation{&ast.ContainerAnnotation{Argument: container, Loc: loc(1)}}
	}
	return d
}

func TestAnalyze_ScenarioA_StoredReadWrite(t *testing.T) {
	result := Analyze(decl(`"shape"`,
		field("Width", "float64", true, prop(`"w"`, 3)),
		field("cache", "float64", true),
	))

	require.True(t, result.Emittable())
	assert.Empty(t, result.Diagnostics)
	require.Equal(t, 1, result.Registry.Len())

	d, ok := result.Registry.Lookup("w")
	require.True(t, ok)
	assert.Equal(t, property.Stored, d.Source)
	assert.Equal(t, property.ReadWrite, d.Access)
	assert.Equal(t, property.Kind(property.KindFloat), d.Kind)
	assert.Equal(t, MemberRef{Member: "Width", Kind: ast.MemberField}, d.Ref)
}

func TestAnalyze_ScenarioB_StoredReadOnly(t *testing.T) {
	result := Analyze(decl(`"shape"`, field("Origin", "geom.Point", false, prop(`"o"`, 3))))

	require.Equal(t, 1, result.Registry.Len())
	d := result.Registry.Descriptors()[0]
	assert.Equal(t, property.Stored, d.Source)
	assert.Equal(t, property.ReadOnly, d.Access)
	assert.Equal(t, property.Kind(property.KindPoint), d.Kind)
}

func TestAnalyze_ScenarioC_GetterIsComputedReadOnly(t *testing.T) {
	for _, mutable := range []bool{true, false} {
		getter := &ast.MemberDecl{
			Name:        "Area",
			Type:        "float64",
			Mutable:     mutable,
			Kind:        ast.MemberMethod,
			Accessors:   ast.NewAccessorSet(ast.AccessorGetter),
			Annotations: []ast.Annotation{prop(`"area"`, 9)},
		}
		result := Analyze(decl(`"shape"`, getter))

		require.Equal(t, 1, result.Registry.Len())
		d := result.Registry.Descriptors()[0]
		assert.Equal(t, property.Computed, d.Source)
		assert.Equal(t, property.ReadOnly, d.Access)
		assert.Equal(t, ast.MemberMethod, d.Ref.Kind)
	}
}

func TestAnalyze_ScenarioD_DuplicateLiteral(t *testing.T) {
	first := prop(`"w"`, 3)
	second := prop(`"w"`, 5)
	result := Analyze(decl(`"shape"`,
		field("Width", "float64", true, first),
		field("Height", "float64", true, second),
	))

	require.Equal(t, 1, result.Registry.Len())
	d, _ := result.Registry.Lookup("w")
	assert.Equal(t, "Width", d.Name)

	require.Len(t, result.Diagnostics, 2)
	assert.Equal(t, errors.SeverityError, result.Diagnostics[0].Severity)
	assert.Equal(t, errors.CodeDuplicateMemberID, result.Diagnostics[0].Code)
	assert.Same(t, second, result.Diagnostics[0].Node)
	assert.Equal(t, errors.SeverityNote, result.Diagnostics[1].Severity)
	assert.Equal(t, errors.CodeDuplicateMemberIDOrigin, result.Diagnostics[1].Code)
	assert.Same(t, first, result.Diagnostics[1].Node)
}

func TestAnalyze_SharedAnnotationReportsMembers(t *testing.T) {
	shared := prop(`"xy"`, 3)
	x := field("X", "float64", true, shared)
	x.Loc = loc(4)
	y := field("Y", "float64", true, shared)
	y.Loc = ast.SourceLocation{File: "shape.go", Line: 4, Column: 5}

	result := Analyze(decl(`"shape"`, x, y))

	assert.Equal(t, []string{"xy"}, result.Registry.Keys())
	require.Len(t, result.Diagnostics, 2)
	assert.Equal(t, errors.CodeDuplicateMemberID, result.Diagnostics[0].Code)
	assert.Same(t, y, result.Diagnostics[0].Node)
	assert.Equal(t, 5, result.Diagnostics[0].Location.Column)
	assert.Contains(t, result.Diagnostics[0].Message, "one annotation covers both fields")
	assert.Equal(t, errors.CodeDuplicateMemberIDOrigin, result.Diagnostics[1].Code)
	assert.Same(t, x, result.Diagnostics[1].Node)
}

func TestAnalyze_RenamedImportKind(t *testing.T) {
	d := decl(`"shape"`, field("Center", "*gm.Point", true, prop(`"c"`, 3)))
	d.Imports = map[string]string{"gm": "example.com/geom"}

	result := Analyze(d)
	require.Equal(t, 1, result.Registry.Len())
	assert.Equal(t, property.Kind(property.KindPoint), result.Registry.Descriptors()[0].Kind)
}

func TestAnalyze_LiteralAndRawStringShareKey(t *testing.T) {
	result := Analyze(decl(`"shape"`,
		field("A", "int", true, prop(`"id"`, 3)),
		field("B", "int", true, prop("`id`", 4)),
	))
	assert.Equal(t, 1, result.Registry.Len())
	assert.Len(t, result.Diagnostics.WithCode(errors.CodeDuplicateMemberID), 1)
}

func TestAnalyze_SymbolicIDsCompareBySpelling(t *testing.T) {
	result := Analyze(decl(`"shape"`,
		field("A", "int", true, prop(`ids.Width`, 3)),
		field("B", "int", true, prop(`ids . Width`, 4)),
		field("C", "int", true, prop(`ids.WidthAlias`, 5)),
	))

	// ExprString normalizes whitespace, so A and B collide; C is a different spelling.
	assert.Equal(t, []string{"ids.Width", "ids.WidthAlias"}, result.Registry.Keys())
	d, _ := result.Registry.Lookup("ids.Width")
	assert.Equal(t, "ids.Width", d.ID.Expr)
	assert.False(t, d.ID.Literal)
}

func TestAnalyze_MissingContainer(t *testing.T) {
	tests := []struct {
		name      string
		container string
	}{
		{"absent", ""},
		{"empty argument", " "},
		{"unparseable", `"a" "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decl(tt.container,
				field("A", "int", true, prop(`"a"`, 3)),
				field("B", "int", true, prop(`"a"`, 4)),
			)
			result := Analyze(d)

			assert.False(t, result.Emittable())
			assert.Nil(t, result.Registry)
			require.Len(t, result.Diagnostics, 1)
			assert.Equal(t, errors.CodeMissingContainerID, result.Diagnostics[0].Code)
			assert.Equal(t, errors.SeverityError, result.Diagnostics[0].Severity)
		})
	}
}

func TestAnalyze_UnsupportedDeclarations(t *testing.T) {
	notStruct := decl(`"k"`)
	notStruct.Struct = false
	generic := decl(`"g"`)
	generic.Generic = true

	for _, d := range []*ast.TypeDecl{notStruct, generic} {
		result := Analyze(d)
		assert.False(t, result.Emittable())
		require.Len(t, result.Diagnostics, 1)
		assert.Equal(t, errors.CodeUnsupportedDeclaration, result.Diagnostics[0].Code)
	}
}

func TestAnalyze_ExclusionsAreReported(t *testing.T) {
	typeLevel := field("Base", "Base", true, prop(`"base"`, 2))
	typeLevel.TypeLevel = true

	notGetter := &ast.MemberDecl{
		Name:        "Reset",
		Kind:        ast.MemberMethod,
		Annotations: []ast.Annotation{prop(`"reset"`, 7)},
	}

	result := Analyze(decl(`"shape"`,
		typeLevel,
		field("Bad", "int", true, prop(`a, b`, 3)),
		field("Twice", "int", true, prop(`"t"`, 4), prop(`"t2"`, 5)),
		notGetter,
	))

	assert.Equal(t, []string{"t"}, result.Registry.Keys())
	codes := []errors.Code{}
	for _, d := range result.Diagnostics {
		assert.Equal(t, errors.SeverityNote, d.Severity)
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []errors.Code{
		errors.CodeMalformedMemberAnnotation,
		errors.CodeRedundantMemberAnnotation,
		errors.CodeInvalidAccessor,
	}, codes)
}

func TestAnalyze_PreservesDeclarationOrder(t *testing.T) {
	getter := &ast.MemberDecl{
		Name:        "Area",
		Type:        "float64",
		Kind:        ast.MemberMethod,
		Accessors:   ast.NewAccessorSet(ast.AccessorGetter, ast.AccessorSetter),
		Annotations: []ast.Annotation{prop(`"a"`, 20)},
	}
	result := Analyze(decl(`ids.Shape`,
		field("Z", "string", true, prop(`"z"`, 3)),
		field("skip", "string", true),
		field("M", "color.RGBA", true, prop(`"m"`, 5)),
		getter,
	))

	assert.Equal(t, []string{"z", "m", "a"}, result.Registry.Keys())
	assert.Equal(t, "ids.Shape", result.Container.ID.Expr)
	assert.Equal(t, "Shape", result.Container.Name)

	last, _ := result.Registry.Lookup("a")
	assert.Equal(t, property.ReadWrite, last.Access)
}

func TestAnalyze_Idempotent(t *testing.T) {
	build := func() *ast.TypeDecl {
		return decl(`"shape"`,
			field("A", "*geom.Size", true, prop(`"a"`, 3)),
			field("B", "[]byte", false, prop(`"a"`, 4)),
		)
	}
	first := Analyze(build())
	second := Analyze(build())

	assert.Equal(t, first.Registry.Keys(), second.Registry.Keys())

	a, err := first.Diagnostics.ToJSON()
	require.NoError(t, err)
	b, err := second.Diagnostics.ToJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRegistry_RejectsDuplicateKey(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add(&PropertyDescriptor{ID: Identifier{Key: "a"}}))
	assert.Error(t, r.Add(&PropertyDescriptor{ID: Identifier{Key: "a"}}))
	assert.Equal(t, 1, r.Len())
}
