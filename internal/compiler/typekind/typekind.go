// Package typekind maps spelled Go types onto the closed value-kind taxonomy.
//
// Classification is total: text that matches no entry of the table yields the
// open variant carrying the normalized text.
package typekind

import (
	"path"
	"strconv"
	"strings"

	"github.com/conduit-lang/propkit/runtime/property"
)

// DefaultQualifiers are the package qualifiers stripped before classification
var DefaultQualifiers = []string{"geom", "image", "color", "property"}

// optionalWrapper is the explicit optional spelling, e.g. Optional[float64]
const optionalWrapper = "Optional"

var table = map[string]property.KindTag{
	"bool": property.KindBool,

	"int":     property.KindInt,
	"int8":    property.KindInt,
	"int16":   property.KindInt,
	"int32":   property.KindInt,
	"int64":   property.KindInt,
	"uint":    property.KindInt,
	"uint8":   property.KindInt,
	"uint16":  property.KindInt,
	"uint32":  property.KindInt,
	"uint64":  property.KindInt,
	"uintptr": property.KindInt,
	"byte":    property.KindInt,
	"rune":    property.KindInt,

	"float32": property.KindFloat,
	"float64": property.KindFloat,

	"Float":  property.KindNativeFloat,
	"Scalar": property.KindScalar,

	"Angle":       property.KindAngle,
	"AngleN":      property.KindAngleN,
	"Point":       property.KindPoint,
	"PointN":      property.KindPointN,
	"PolarPointN": property.KindPolarPointN,
	"Vector":      property.KindVector,
	"VectorN":     property.KindVectorN,
	"Size":        property.KindSize,
	"SizeN":       property.KindSizeN,
	"Rect":        property.KindRect,
	"Rectangle":   property.KindRect,
	"RectN":       property.KindRectN,

	"Color": property.KindColor,
	"RGBA":  property.KindNativeColor,

	"string": property.KindText,
}

// Classifier normalizes type text against a set of recognized qualifiers.
// The zero value recognizes no qualifiers.
type Classifier struct {
	qualifiers map[string]bool
}

// New creates a classifier recognizing the given package qualifiers
func New(qualifiers ...string) *Classifier {
	c := &Classifier{qualifiers: make(map[string]bool, len(qualifiers))}
	for _, q := range qualifiers {
		c.qualifiers[q] = true
	}
	return c
}

// Default returns a classifier recognizing DefaultQualifiers
func Default() *Classifier {
	return New(DefaultQualifiers...)
}

// Classify normalizes text and looks it up in the closed table.
func (c *Classifier) Classify(text string) property.ValueKind {
	return c.ClassifyIn(text, nil)
}

// ClassifyIn classifies text spelled in a file whose imports map local
// package names to import paths. A renamed import such as
// gm "example.com/geom" matches by the imported package's name.
func (c *Classifier) ClassifyIn(text string, imports map[string]string) property.ValueKind {
	normalized := c.normalize(text, imports)
	if tag, ok := table[normalized]; ok {
		return property.Kind(tag)
	}
	return property.Other(normalized)
}

// Normalize trims text, strips a recognized qualifier, unwraps exactly one
// optional layer and strips a recognized qualifier again.
func (c *Classifier) Normalize(text string) string {
	return c.normalize(text, nil)
}

func (c *Classifier) normalize(text string, imports map[string]string) string {
	return c.stripQualifier(unwrapOptional(c.stripQualifier(strings.TrimSpace(text), imports)), imports)
}

// stripQualifier removes a leading "pkg." when pkg, or the name of the
// package it imports, is recognized
func (c *Classifier) stripQualifier(text string, imports map[string]string) string {
	pkg, rest, ok := strings.Cut(text, ".")
	if !ok {
		return text
	}
	if c.qualifiers[pkg] {
		return rest
	}
	if importPath, ok := imports[pkg]; ok && c.qualifiers[PackageName(importPath)] {
		return rest
	}
	return text
}

// unwrapOptional removes one leading pointer or one Optional[...] wrapper
func unwrapOptional(text string) string {
	if rest, ok := strings.CutPrefix(text, "*"); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(text, optionalWrapper+"["); ok {
		if inner, ok := strings.CutSuffix(rest, "]"); ok {
			return strings.TrimSpace(inner)
		}
	}
	return text
}

// Classify classifies text with the default qualifier set
func Classify(text string) property.ValueKind {
	return Default().Classify(text)
}

// PackageName derives a package name from an import path the way the go tool
// does for conventional layouts: the last element, skipping a major version
// suffix or ".vN" suffix, with any "go-" prefix or ".go" suffix dropped.
func PackageName(importPath string) string {
	base := path.Base(importPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.LastIndex(base, ".v"); i > 0 && isMajorVersion(base[i+1:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, ".go")
	return strings.ReplaceAll(base, "-", "")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
