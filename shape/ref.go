package shape

import (
	"fmt"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Ref is a textual type reference: a dotted name with an optional [] suffix.
// Builders validate refs at build time so attribution sees only valid ones.
type Ref struct {
	Name     string
	Array    bool `json:",omitempty"`
	Location Location
}

func (r Ref) String() string {
	if r.Array {
		return r.Name + "[]"
	}
	return r.Name
}

// IsEmpty returns true when the reference carries no name.
func (r Ref) IsEmpty() bool {
	return r.Name == ""
}

const (
	whitespaceToken = iota
	identifierToken
	dotToken
	arrayToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &identifierMatch{})
var dotMatcher = parsly.NewToken(dotToken, "Dot", matcher.NewByte('.'))
var arrayMatcher = parsly.NewToken(arrayToken, "Array", matcher.NewFragment("[]"))

type identifierMatch struct{}

func (i *identifierMatch) Match(cursor *parsly.Cursor) int {
	if cursor.Pos >= cursor.InputSize {
		return 0
	}
	if !isIdentifierStart(cursor.Input[cursor.Pos]) {
		return 0
	}
	pos := cursor.Pos + 1
	for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
		pos++
	}
	return pos - cursor.Pos
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9')
}

// ParseRef parses a type reference of the form pkg.Name or pkg.Name[].
func ParseRef(text string) (Ref, error) {
	cursor := parsly.NewCursor("", []byte(text), 0)
	ret := Ref{}
	expectIdentifier := true
	for cursor.Pos < cursor.InputSize {
		if expectIdentifier {
			matched := cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
			if matched.Code != identifierToken {
				return Ref{}, fmt.Errorf("invalid type reference %q: expected identifier at %v", text, cursor.Pos)
			}
			ret.Name += matched.Text(cursor)
			expectIdentifier = false
			continue
		}
		matched := cursor.MatchAfterOptional(whitespaceMatcher, dotMatcher, arrayMatcher)
		switch matched.Code {
		case dotToken:
			if ret.Array {
				return Ref{}, fmt.Errorf("invalid type reference %q: array suffix has to be last", text)
			}
			ret.Name += "."
			expectIdentifier = true
		case arrayToken:
			if ret.Array {
				return Ref{}, fmt.Errorf("invalid type reference %q: nested arrays are not supported", text)
			}
			ret.Array = true
		case parsly.EOF:
		default:
			return Ref{}, fmt.Errorf("invalid type reference %q: unexpected input at %v", text, cursor.Pos)
		}
	}
	if ret.Name == "" || expectIdentifier {
		return Ref{}, fmt.Errorf("invalid type reference %q: incomplete name", text)
	}
	return ret, nil
}

// MustParseRef parses a reference known to be valid; it panics otherwise.
func MustParseRef(text string) Ref {
	ret, err := ParseRef(text)
	if err != nil {
		panic(err)
	}
	return ret
}
