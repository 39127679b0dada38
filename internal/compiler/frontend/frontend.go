// Package frontend builds propkit declaration trees from Go syntax.
//
// A struct becomes a TypeDecl when its doc comment carries a container
// directive or when any of its members carries a property directive. Fields
// are members in field order, followed by annotated methods in source order.
package frontend

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"strconv"
	"strings"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/internal/compiler/typekind"
)

// DefaultTagKey is the struct tag key holding field options
const DefaultTagKey = "propkit"

// readonlyOption marks a field as an immutable binding
const readonlyOption = "readonly"

// Options configure tree construction
type Options struct {
	// TagKey is the struct tag key inspected for the readonly option
	TagKey string
	// Info, when set, resolves import names exactly instead of guessing from paths
	Info *types.Info
}

func (o Options) tagKey() string {
	if o.TagKey == "" {
		return DefaultTagKey
	}
	return o.TagKey
}

// File is the set of declarations found in one Go source file
type File struct {
	Path    string
	Package string
	PkgPath string
	Decls   []*ast.TypeDecl
}

// ParseSource parses a single Go file and builds its declarations.
// src follows go/parser.ParseFile: nil reads filename from disk.
func ParseSource(filename string, src any, pkgPath string, opts Options) (*File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	files := FromPackage(fset, []*goast.File{file}, pkgPath, opts)
	return files[0], nil
}

// FromPackage builds declarations for every file of one package. Methods are
// collected across all files so a type's accessors may live anywhere in the
// package. The result has one File per input file, in input order.
func FromPackage(fset *token.FileSet, files []*goast.File, pkgPath string, opts Options) []*File {
	methods := collectMethods(files)

	out := make([]*File, 0, len(files))
	for _, f := range files {
		b := &builder{
			fset:    fset,
			file:    f,
			opts:    opts,
			methods: methods,
			imports: importTable(f, opts.Info),
		}
		out = append(out, &File{
			Path:    fset.Position(f.Pos()).Filename,
			Package: f.Name.Name,
			PkgPath: pkgPath,
			Decls:   b.decls(pkgPath),
		})
	}
	return out
}

type builder struct {
	fset    *token.FileSet
	file    *goast.File
	opts    Options
	methods map[string][]*goast.FuncDecl
	imports map[string]string
}

func (b *builder) decls(pkgPath string) []*ast.TypeDecl {
	var decls []*ast.TypeDecl
	for _, d := range b.file.Decls {
		gen, ok := d.(*goast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*goast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gen.Lparen.IsValid() {
				doc = gen.Doc
			}
			if decl := b.typeDecl(ts, doc, pkgPath); decl != nil {
				decls = append(decls, decl)
			}
		}
	}
	return decls
}

func (b *builder) typeDecl(ts *goast.TypeSpec, doc *goast.CommentGroup, pkgPath string) *ast.TypeDecl {
	st, isStruct := ts.Type.(*goast.StructType)
	isStruct = isStruct && !ts.Assign.IsValid()

	decl := &ast.TypeDecl{
		Name:        ts.Name.Name,
		Package:     b.file.Name.Name,
		PkgPath:     pkgPath,
		Annotations: b.directives(doc),
		Imports:     b.imports,
		Struct:      isStruct,
		Generic:     ts.TypeParams != nil && ts.TypeParams.NumFields() > 0,
		Loc:         b.loc(ts.Pos()),
		EndLoc:      b.loc(ts.End()),
		Syntax:      ts,
	}

	if isStruct {
		fields := b.fields(st)
		methods := b.methodMembers(ts.Name.Name)
		b.attachObservers(ts.Name.Name, fields)
		decl.Members = append(fields, methods...)
	}

	if decl.Container() == nil && !hasPropertyDirective(decl.Members) {
		return nil
	}
	return decl
}

func (b *builder) fields(st *goast.StructType) []*ast.MemberDecl {
	var members []*ast.MemberDecl
	for _, f := range st.Fields.List {
		annotations := append(b.directives(f.Doc), b.directives(f.Comment)...)
		typeText := types.ExprString(f.Type)
		mutable := !b.readonly(f.Tag)

		// an embedded field is per-instance data named after its type
		if len(f.Names) == 0 {
			members = append(members, &ast.MemberDecl{
				Name:        embeddedName(f.Type),
				Type:        typeText,
				Mutable:     mutable,
				Kind:        ast.MemberField,
				Annotations: annotations,
				Loc:         b.loc(f.Pos()),
				EndLoc:      b.loc(f.End()),
				Syntax:      f,
			})
			continue
		}

		for _, name := range f.Names {
			members = append(members, &ast.MemberDecl{
				Name:        name.Name,
				Type:        typeText,
				Mutable:     mutable,
				TypeLevel:   name.Name == "_",
				Kind:        ast.MemberField,
				Annotations: annotations,
				Loc:         b.loc(name.Pos()),
				EndLoc:      b.loc(f.End()),
				Syntax:      f,
			})
		}
	}
	return members
}

// methodMembers returns annotated methods of typeName in source order.
// Methods with a getter shape carry AccessorGetter, plus AccessorSetter when
// a matching Set method exists.
func (b *builder) methodMembers(typeName string) []*ast.MemberDecl {
	all := b.methods[typeName]

	var members []*ast.MemberDecl
	for _, fn := range all {
		annotations := b.directives(fn.Doc)
		if len(annotations) == 0 {
			continue
		}

		m := &ast.MemberDecl{
			Name:        fn.Name.Name,
			Kind:        ast.MemberMethod,
			Annotations: annotations,
			Loc:         b.loc(fn.Name.Pos()),
			EndLoc:      b.loc(fn.Type.End()),
			Syntax:      fn,
		}
		if isGetter(fn) {
			m.Type = types.ExprString(fn.Type.Results.List[0].Type)
			m.Accessors = m.Accessors.With(ast.AccessorGetter)
			if hasSetter(all, fn.Name.Name) {
				m.Accessors = m.Accessors.With(ast.AccessorSetter)
				m.Mutable = true
			}
		}
		members = append(members, m)
	}
	return members
}

// attachObservers marks fields that have beforeSet/afterSet hooks
func (b *builder) attachObservers(typeName string, fields []*ast.MemberDecl) {
	byKey := make(map[string]*ast.MemberDecl, len(fields))
	for _, f := range fields {
		byKey[foldFirst(f.Name)] = f
	}
	for _, fn := range b.methods[typeName] {
		kind, target, ok := observerTarget(fn.Name.Name)
		if !ok {
			continue
		}
		if f, ok := byKey[foldFirst(target)]; ok {
			f.Accessors = f.Accessors.With(kind)
		}
	}
}

func (b *builder) readonly(tag *goast.BasicLit) bool {
	if tag == nil {
		return false
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return false
	}
	value, ok := reflect.StructTag(raw).Lookup(b.opts.tagKey())
	if !ok {
		return false
	}
	for _, opt := range strings.Split(value, ",") {
		if strings.TrimSpace(opt) == readonlyOption {
			return true
		}
	}
	return false
}

// directives reads propkit annotations from the raw comment list.
// CommentGroup.Text drops directive comments, so the list is walked directly.
func (b *builder) directives(cg *goast.CommentGroup) []ast.Annotation {
	if cg == nil {
		return nil
	}
	var out []ast.Annotation
	for _, c := range cg.List {
		if a := ast.ParseDirective(c.Text, b.loc(c.Pos()), b.loc(c.End())); a != nil {
			out = append(out, a)
		}
	}
	return out
}

func (b *builder) loc(pos token.Pos) ast.SourceLocation {
	p := b.fset.Position(pos)
	return ast.SourceLocation{File: p.Filename, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func hasPropertyDirective(members []*ast.MemberDecl) bool {
	for _, m := range members {
		if len(m.Properties()) > 0 {
			return true
		}
	}
	return false
}

// collectMethods indexes method declarations by receiver base type name
func collectMethods(files []*goast.File) map[string][]*goast.FuncDecl {
	methods := make(map[string][]*goast.FuncDecl)
	for _, f := range files {
		for _, d := range f.Decls {
			fn, ok := d.(*goast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			if name := receiverName(fn.Recv.List[0].Type); name != "" {
				methods[name] = append(methods[name], fn)
			}
		}
	}
	return methods
}

func receiverName(expr goast.Expr) string {
	for {
		switch e := expr.(type) {
		case *goast.StarExpr:
			expr = e.X
		case *goast.ParenExpr:
			expr = e.X
		case *goast.IndexExpr:
			expr = e.X
		case *goast.IndexListExpr:
			expr = e.X
		case *goast.Ident:
			return e.Name
		default:
			return ""
		}
	}
}

func embeddedName(expr goast.Expr) string {
	switch e := expr.(type) {
	case *goast.StarExpr:
		return embeddedName(e.X)
	case *goast.SelectorExpr:
		return e.Sel.Name
	case *goast.IndexExpr:
		return embeddedName(e.X)
	case *goast.IndexListExpr:
		return embeddedName(e.X)
	case *goast.Ident:
		return e.Name
	default:
		return types.ExprString(expr)
	}
}

// importTable maps file-local package names to import paths
func importTable(f *goast.File, info *types.Info) map[string]string {
	table := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		var name string
		switch {
		case spec.Name != nil:
			name = spec.Name.Name
		case info != nil:
			if pn, _ := info.Implicits[spec].(*types.PkgName); pn != nil {
				name = pn.Imported().Name()
			}
		}
		if name == "" {
			name = typekind.PackageName(importPath)
		}
		if name == "_" || name == "." {
			continue
		}
		table[name] = importPath
	}
	return table
}
