package property

// KindTag enumerates the closed value-kind taxonomy.
type KindTag int

const (
	KindOther KindTag = iota
	KindBool
	KindInt
	KindFloat
	KindNativeFloat
	KindScalar
	KindAngle
	KindAngleN
	KindPoint
	KindPointN
	KindPolarPointN
	KindVector
	KindVectorN
	KindSize
	KindSizeN
	KindRect
	KindRectN
	KindColor
	KindNativeColor
	KindText
)

var kindNames = map[KindTag]string{
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindNativeFloat: "nativeFloat",
	KindScalar:      "scalar",
	KindAngle:       "angle",
	KindAngleN:      "angleN",
	KindPoint:       "point",
	KindPointN:      "pointN",
	KindPolarPointN: "polarPointN",
	KindVector:      "vector",
	KindVectorN:     "vectorN",
	KindSize:        "size",
	KindSizeN:       "sizeN",
	KindRect:        "rect",
	KindRectN:       "rectN",
	KindColor:       "color",
	KindNativeColor: "nativeColor",
	KindText:        "text",
}

// String returns the wire name of the tag. KindOther renders as "other".
func (k KindTag) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// Kinds returns every closed tag in declaration order, excluding KindOther.
func Kinds() []KindTag {
	tags := make([]KindTag, 0, len(kindNames))
	for k := KindBool; k <= KindText; k++ {
		tags = append(tags, k)
	}
	return tags
}

// ValueKind is a tagged variant: a closed tag, or KindOther carrying the
// normalized type text it could not classify.
type ValueKind struct {
	Tag  KindTag
	Text string
}

// Kind returns the closed variant for tag.
func Kind(tag KindTag) ValueKind {
	return ValueKind{Tag: tag}
}

// Other returns the open variant carrying text verbatim.
func Other(text string) ValueKind {
	return ValueKind{Tag: KindOther, Text: text}
}

// IsOther reports whether k is the open variant
func (k ValueKind) IsOther() bool {
	return k.Tag == KindOther
}

// String renders closed kinds by name and open kinds as other(<text>).
func (k ValueKind) String() string {
	if k.Tag == KindOther {
		return "other(" + k.Text + ")"
	}
	return k.Tag.String()
}
