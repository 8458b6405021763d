package graph

import (
	"strconv"
	"time"

	"github.com/rdf-utils/rdf-utils/namespace"
)

// Node 是图中的节点：IRI、空白节点或字面量。
type Node interface {
	String() string
	node()
}

// IRI 标识一个具名资源。
type IRI string

// BlankNode 是匿名节点，RDF 列表的内部节点通常是空白节点。
type BlankNode string

// Literal 是带数据类型或语言标签的字面量。
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

func (IRI) node()       {}
func (BlankNode) node() {}
func (Literal) node()   {}

func (i IRI) String() string       { return "<" + string(i) + ">" }
func (b BlankNode) String() string { return "_:" + string(b) }

func (l Literal) String() string {
	s := strconv.Quote(l.Lexical)
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype != "":
		return s + "^^" + l.Datatype.String()
	default:
		return s
	}
}

// RDF 列表与常用数据类型。
const (
	RDFFirst IRI = namespace.URIRDF + "first"
	RDFRest  IRI = namespace.URIRDF + "rest"
	RDFNil   IRI = namespace.URIRDF + "nil"
	RDFType  IRI = namespace.URIRDF + "type"

	RDFLangString IRI = namespace.URIRDF + "langString"

	XSDString             IRI = namespace.URIXSD + "string"
	XSDBoolean            IRI = namespace.URIXSD + "boolean"
	XSDInteger            IRI = namespace.URIXSD + "integer"
	XSDInt                IRI = namespace.URIXSD + "int"
	XSDLong               IRI = namespace.URIXSD + "long"
	XSDShort              IRI = namespace.URIXSD + "short"
	XSDByte               IRI = namespace.URIXSD + "byte"
	XSDNonNegativeInteger IRI = namespace.URIXSD + "nonNegativeInteger"
	XSDPositiveInteger    IRI = namespace.URIXSD + "positiveInteger"
	XSDNonPositiveInteger IRI = namespace.URIXSD + "nonPositiveInteger"
	XSDNegativeInteger    IRI = namespace.URIXSD + "negativeInteger"
	XSDUnsignedLong       IRI = namespace.URIXSD + "unsignedLong"
	XSDUnsignedInt        IRI = namespace.URIXSD + "unsignedInt"
	XSDUnsignedShort      IRI = namespace.URIXSD + "unsignedShort"
	XSDUnsignedByte       IRI = namespace.URIXSD + "unsignedByte"
	XSDDecimal            IRI = namespace.URIXSD + "decimal"
	XSDDouble             IRI = namespace.URIXSD + "double"
	XSDFloat              IRI = namespace.URIXSD + "float"
	XSDDateTime           IRI = namespace.URIXSD + "dateTime"
	XSDDate               IRI = namespace.URIXSD + "date"
)

var (
	dateTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}
	dateLayouts     = []string{"2006-01-02Z07:00", "2006-01-02"}
)

// NewString 构造普通字符串字面量。
func NewString(s string) Literal {
	return Literal{Lexical: s}
}

// NewInteger 构造 xsd:integer 字面量。
func NewInteger(v int64) Literal {
	return Literal{Lexical: strconv.FormatInt(v, 10), Datatype: XSDInteger}
}

// NewDouble 构造 xsd:double 字面量。
func NewDouble(v float64) Literal {
	return Literal{Lexical: strconv.FormatFloat(v, 'g', -1, 64), Datatype: XSDDouble}
}

// NewBoolean 构造 xsd:boolean 字面量。
func NewBoolean(v bool) Literal {
	return Literal{Lexical: strconv.FormatBool(v), Datatype: XSDBoolean}
}

// IsString 表示字面量是否为文本：无数据类型、xsd:string 或带语言标签。
func (l Literal) IsString() bool {
	return l.Lang != "" || l.Datatype == "" || l.Datatype == XSDString || l.Datatype == RDFLangString
}

// Value 把字面量转换为 Go 值：整数类型为 int64，小数为 float64，布尔为 bool，
// dateTime 与 date 为 time.Time（无时区时按 UTC）。文本、未知数据类型以及
// 无法按数据类型解析的词法形式都返回词法字符串。
func (l Literal) Value() any {
	switch l.Datatype {
	case XSDInteger, XSDInt, XSDLong, XSDShort, XSDByte,
		XSDNonNegativeInteger, XSDPositiveInteger, XSDNonPositiveInteger, XSDNegativeInteger,
		XSDUnsignedLong, XSDUnsignedInt, XSDUnsignedShort, XSDUnsignedByte:
		if v, err := strconv.ParseInt(l.Lexical, 10, 64); err == nil {
			return v
		}
	case XSDDecimal, XSDDouble, XSDFloat:
		if v, err := strconv.ParseFloat(l.Lexical, 64); err == nil {
			return v
		}
	case XSDBoolean:
		switch l.Lexical {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
	case XSDDateTime:
		if v, ok := parseTime(l.Lexical, dateTimeLayouts); ok {
			return v
		}
	case XSDDate:
		if v, ok := parseTime(l.Lexical, dateLayouts); ok {
			return v
		}
	}
	return l.Lexical
}

func parseTime(lexical string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if v, err := time.Parse(layout, lexical); err == nil {
			return v, true
		}
	}
	return time.Time{}, false
}
