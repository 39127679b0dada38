// Package vet exposes propkit's annotation checks as a go/analysis pass so
// they run under go vet, gopls and multichecker drivers.
//
// Every diagnostic is reported at the declaration it concerns: the type for
// container problems, the field or method for property problems. The
// directive that caused it is attached as related information. A duplicate
// id error carries the first use of the id as a second related location.
package vet

import (
	goast "go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
	propanalysis "github.com/conduit-lang/propkit/internal/compiler/analysis"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
	"github.com/conduit-lang/propkit/internal/compiler/frontend"
	"github.com/conduit-lang/propkit/internal/compiler/typekind"
	"github.com/conduit-lang/propkit/internal/tooling/build"
)

const doc = `check propkit container and property annotations

The propkit analyzer reports the diagnostics propkit generate would print:
missing or unparseable container ids, unsupported container types, duplicate
property ids, malformed property annotations and annotated methods that are
not getters.`

// Analyzer checks propkit annotations with default settings
var Analyzer = NewAnalyzer()

// NewAnalyzer returns a fresh analyzer with its own flag set
func NewAnalyzer() *analysis.Analyzer {
	r := &runner{
		tagKey:     frontend.DefaultTagKey,
		qualifiers: strings.Join(typekind.DefaultQualifiers, ","),
		suffix:     build.DefaultOutputSuffix,
	}

	a := &analysis.Analyzer{
		Name: "propkit",
		Doc:  doc,
		Run:  r.run,
	}
	a.Flags.StringVar(&r.tagKey, "tagkey", r.tagKey, "struct tag key holding field options")
	a.Flags.StringVar(&r.qualifiers, "qualifiers", r.qualifiers, "comma-separated package qualifiers stripped before kind classification")
	a.Flags.StringVar(&r.suffix, "suffix", r.suffix, "suffix of generated files to skip")
	return a
}

type runner struct {
	tagKey     string
	qualifiers string
	suffix     string
}

func (r *runner) run(pass *analysis.Pass) (any, error) {
	files := r.sourceFiles(pass)
	if len(files) == 0 {
		return nil, nil
	}

	analyzer := propanalysis.New(typekind.New(r.qualifierList()...))
	built := frontend.FromPackage(pass.Fset, files, pass.Pkg.Path(), frontend.Options{
		TagKey: r.tagKey,
		Info:   pass.TypesInfo,
	})

	positions := newPositioner(pass.Fset, files)
	for _, f := range built {
		for _, decl := range f.Decls {
			result := analyzer.Analyze(decl)
			report(pass, positions, decl, result.Diagnostics)
		}
	}
	return nil, nil
}

func (r *runner) sourceFiles(pass *analysis.Pass) []*goast.File {
	testSuffix := strings.TrimSuffix(r.suffix, ".go") + "_test.go"

	files := make([]*goast.File, 0, len(pass.Files))
	for _, f := range pass.Files {
		name := pass.Fset.File(f.Pos()).Name()
		if strings.HasSuffix(name, r.suffix) || strings.HasSuffix(name, testSuffix) || goast.IsGenerated(f) {
			continue
		}
		files = append(files, f)
	}
	return files
}

func (r *runner) qualifierList() []string {
	var out []string
	for _, q := range strings.Split(r.qualifiers, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

// report converts one declaration's diagnostics. An origin note directly
// following its duplicate error is folded into that error.
func report(pass *analysis.Pass, positions *positioner, decl *ast.TypeDecl, diags errors.List) {
	owners := ownerIndex(decl)

	for i := 0; i < len(diags); i++ {
		d := diags[i]

		owner, ok := owners[d.Node]
		if !ok {
			owner = decl
		}

		out := analysis.Diagnostic{
			Pos:      positions.pos(owner.Location()),
			End:      positions.pos(owner.End()),
			Category: d.Code.ID,
			Message:  message(d),
		}
		if d.Node != nil && d.Node != owner {
			out.Related = append(out.Related, analysis.RelatedInformation{
				Pos:     positions.pos(d.Location),
				End:     positions.pos(d.End()),
				Message: "annotation here",
			})
		}

		if d.Code == errors.CodeDuplicateMemberID && i+1 < len(diags) && diags[i+1].Code == errors.CodeDuplicateMemberIDOrigin {
			origin := diags[i+1]
			out.Related = append(out.Related, analysis.RelatedInformation{
				Pos:     positions.pos(origin.Location),
				End:     positions.pos(origin.End()),
				Message: origin.Message,
			})
			i++
		}

		pass.Report(out)
	}
}

func message(d *errors.Diagnostic) string {
	if d.Severity == errors.SeverityNote {
		return "note: " + d.Message
	}
	return d.Message
}

// ownerIndex maps every annotation and member of decl to the declaration
// its diagnostics are reported on
func ownerIndex(decl *ast.TypeDecl) map[ast.Node]ast.Node {
	owners := map[ast.Node]ast.Node{decl: decl}
	for _, a := range decl.Annotations {
		owners[a] = decl
	}
	for _, m := range decl.Members {
		owners[m] = m
		for _, a := range m.Annotations {
			owners[a] = m
		}
	}
	return owners
}

// positioner maps source locations back to token positions
type positioner struct {
	files map[string]*token.File
}

func newPositioner(fset *token.FileSet, files []*goast.File) *positioner {
	p := &positioner{files: make(map[string]*token.File, len(files))}
	for _, f := range files {
		tf := fset.File(f.Pos())
		p.files[tf.Name()] = tf
	}
	return p
}

func (p *positioner) pos(loc ast.SourceLocation) token.Pos {
	tf, ok := p.files[loc.File]
	if !ok || !loc.IsValid() || loc.Offset > tf.Size() {
		return token.NoPos
	}
	return tf.Pos(loc.Offset)
}
