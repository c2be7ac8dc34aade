// Package contentstream tokenizes and classifies a page content stream's
// operators: the byte sequence of a /Contents stream (or the concatenation
// of an array of them) decomposed into an ordered sequence of (operator,
// operands) pairs, plus an Interpreter that drives graphics- and
// text-state tracking for the text extractor, and a Builder for authoring
// content streams operator by operator.
package contentstream

// Category groups an operator by the PDF operator table it belongs to
// (8.2, Table 51).
type Category uint8

const (
	CategoryGeneralGraphicsState Category = iota
	CategorySpecialGraphicsState
	CategoryPathConstruction
	CategoryPathPainting
	CategoryClippingPath
	CategoryTextObject
	CategoryTextState
	CategoryTextPositioning
	CategoryTextShowing
	CategoryType3Font
	CategoryColor
	CategoryShadingPattern
	CategoryInlineImage
	CategoryXObject
	CategoryMarkedContent
	CategoryCompatibility
)

// OperatorInfo documents one content-stream operator: its expected operand
// count (-1 means variable) and the operator table it belongs to.
type OperatorInfo struct {
	Category Category
	Operands int
}

// Operators is the closed catalog of ~70 content-stream operators this
// core recognizes (8.2). An operator absent from this table is still
// parsed - it becomes a generic Operation with whatever operands were on
// the stack - but is not separately categorized.
var Operators = map[string]OperatorInfo{
	// General graphics state
	"w":  {CategoryGeneralGraphicsState, 1},
	"J":  {CategoryGeneralGraphicsState, 1},
	"j":  {CategoryGeneralGraphicsState, 1},
	"M":  {CategoryGeneralGraphicsState, 1},
	"d":  {CategoryGeneralGraphicsState, 2},
	"ri": {CategoryGeneralGraphicsState, 1},
	"i":  {CategoryGeneralGraphicsState, 1},
	"gs": {CategoryGeneralGraphicsState, 1},

	// Special graphics state
	"q":  {CategorySpecialGraphicsState, 0},
	"Q":  {CategorySpecialGraphicsState, 0},
	"cm": {CategorySpecialGraphicsState, 6},

	// Path construction
	"m":  {CategoryPathConstruction, 2},
	"l":  {CategoryPathConstruction, 2},
	"c":  {CategoryPathConstruction, 6},
	"v":  {CategoryPathConstruction, 4},
	"y":  {CategoryPathConstruction, 4},
	"h":  {CategoryPathConstruction, 0},
	"re": {CategoryPathConstruction, 4},

	// Path painting
	"S":  {CategoryPathPainting, 0},
	"s":  {CategoryPathPainting, 0},
	"f":  {CategoryPathPainting, 0},
	"F":  {CategoryPathPainting, 0},
	"f*": {CategoryPathPainting, 0},
	"B":  {CategoryPathPainting, 0},
	"B*": {CategoryPathPainting, 0},
	"b":  {CategoryPathPainting, 0},
	"b*": {CategoryPathPainting, 0},
	"n":  {CategoryPathPainting, 0},

	// Clipping path
	"W":  {CategoryClippingPath, 0},
	"W*": {CategoryClippingPath, 0},

	// Text object
	"BT": {CategoryTextObject, 0},
	"ET": {CategoryTextObject, 0},

	// Text state
	"Tc": {CategoryTextState, 1},
	"Tw": {CategoryTextState, 1},
	"Tz": {CategoryTextState, 1},
	"TL": {CategoryTextState, 1},
	"Tf": {CategoryTextState, 2},
	"Tr": {CategoryTextState, 1},
	"Ts": {CategoryTextState, 1},

	// Text positioning
	"Td": {CategoryTextPositioning, 2},
	"TD": {CategoryTextPositioning, 2},
	"Tm": {CategoryTextPositioning, 6},
	"T*": {CategoryTextPositioning, 0},

	// Text showing
	"Tj": {CategoryTextShowing, 1},
	"'":  {CategoryTextShowing, 1},
	"\"": {CategoryTextShowing, 3},
	"TJ": {CategoryTextShowing, 1},

	// Type 3 fonts
	"d0": {CategoryType3Font, 2},
	"d1": {CategoryType3Font, 6},

	// Color
	"CS":  {CategoryColor, 1},
	"cs":  {CategoryColor, 1},
	"SC":  {CategoryColor, -1},
	"sc":  {CategoryColor, -1},
	"SCN": {CategoryColor, -1},
	"scn": {CategoryColor, -1},
	"G":   {CategoryColor, 1},
	"g":   {CategoryColor, 1},
	"RG":  {CategoryColor, 3},
	"rg":  {CategoryColor, 3},
	"K":   {CategoryColor, 4},
	"k":   {CategoryColor, 4},

	// Shading pattern
	"sh": {CategoryShadingPattern, 1},

	// Inline image
	"BI": {CategoryInlineImage, 0},
	"ID": {CategoryInlineImage, 0},
	"EI": {CategoryInlineImage, 0},

	// XObject
	"Do": {CategoryXObject, 1},

	// Marked content
	"MP":  {CategoryMarkedContent, 1},
	"DP":  {CategoryMarkedContent, 2},
	"BMC": {CategoryMarkedContent, 1},
	"BDC": {CategoryMarkedContent, 2},
	"EMC": {CategoryMarkedContent, 0},

	// Compatibility
	"BX": {CategoryCompatibility, 0},
	"EX": {CategoryCompatibility, 0},
}
