// Package record reads the bracket-delimited message format written by the
// assembler: `{TAG` opens a record, a lone `}` closes it, `abc:value` lines are
// fields and everything else is payload.
package record

// Kind classifies a single input line.
type Kind uint8

const (
	Opaque Kind = iota
	Open
	Close
	Field
)

func (k Kind) String() string {
	switch k {
	case Open:
		return "open"
	case Close:
		return "close"
	case Field:
		return "field"
	default:
		return "opaque"
	}
}

// Line is one classified input line. Tag is set for Open, Name/Value for Field.
type Line struct {
	Kind  Kind
	Tag   string
	Name  string
	Value string
	Text  string
	Num   int
}

// Classify matches, in order: `}` exactly, `^{(\w+)`, `^(\w{3}):(.*)$`.
// Only the start of the line has to match.
func Classify(s string) Line {
	l := Line{Kind: Opaque, Text: s}
	switch {
	case s == "}":
		l.Kind = Close
	case len(s) > 1 && s[0] == '{' && isWord(s[1]):
		end := 2
		for end < len(s) && isWord(s[end]) {
			end++
		}
		l.Kind = Open
		l.Tag = s[1:end]
	case len(s) >= 4 && isWord(s[0]) && isWord(s[1]) && isWord(s[2]) && s[3] == ':':
		l.Kind = Field
		l.Name = s[:3]
		l.Value = s[4:]
	}
	return l
}

// IsOpen reports whether l opens a record with the given tag.
func (l Line) IsOpen(tag string) bool { return l.Kind == Open && l.Tag == tag }

func isWord(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
