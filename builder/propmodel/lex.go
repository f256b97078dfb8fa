package propmodel

import (
	"fmt"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	spaceToken = iota
	commentToken
	newlineToken
	keyToken
	separatorToken
	valueToken
)

var spaceMatcher = parsly.NewToken(spaceToken, "Space", &spaceMatch{})
var commentMatcher = parsly.NewToken(commentToken, "Comment", &lineMatch{first: "#!"})
var newlineMatcher = parsly.NewToken(newlineToken, "Newline", matcher.NewByte('\n'))
var keyMatcher = parsly.NewToken(keyToken, "Key", &keyMatch{})
var separatorMatcher = parsly.NewToken(separatorToken, "Separator", matcher.NewFragments([]byte("="), []byte(":")))
var valueMatcher = parsly.NewToken(valueToken, "Value", &lineMatch{})

type spaceMatch struct{}

func (s *spaceMatch) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	for pos < cursor.InputSize {
		b := cursor.Input[pos]
		if b != ' ' && b != '\t' && b != '\r' {
			break
		}
		pos++
	}
	return pos - cursor.Pos
}

// lineMatch consumes to the end of line; when first is set the initial byte
// has to be one of it.
type lineMatch struct {
	first string
}

func (l *lineMatch) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	if pos >= cursor.InputSize {
		return 0
	}
	if l.first != "" {
		matched := false
		for i := 0; i < len(l.first); i++ {
			if cursor.Input[pos] == l.first[i] {
				matched = true
				break
			}
		}
		if !matched {
			return 0
		}
	}
	for pos < cursor.InputSize && cursor.Input[pos] != '\n' {
		pos++
	}
	return pos - cursor.Pos
}

type keyMatch struct{}

func (k *keyMatch) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	for pos < cursor.InputSize {
		b := cursor.Input[pos]
		if !isKeyPart(b) && b != '.' {
			break
		}
		pos++
	}
	return pos - cursor.Pos
}

func isKeyPart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_' || b == '-'
}

type entry struct {
	key   string
	value string
	line  int
}

// parse tokenizes tabular key value text into entries with line coordinates.
func parse(data []byte) ([]entry, error) {
	cursor := parsly.NewCursor("", data, 0)
	var ret []entry
	line := 1
	for cursor.Pos < cursor.InputSize {
		cursor.MatchOne(spaceMatcher)
		if cursor.Pos >= cursor.InputSize {
			break
		}
		matched := cursor.MatchAny(newlineMatcher, commentMatcher, keyMatcher)
		switch matched.Code {
		case newlineToken:
			line++
			continue
		case commentToken:
			continue
		case keyToken:
			key := matched.Text(cursor)
			cursor.MatchOne(spaceMatcher)
			if sep := cursor.MatchOne(separatorMatcher); sep.Code != separatorToken {
				return nil, fmt.Errorf("line %v: expected separator after key %v", line, key)
			}
			cursor.MatchOne(spaceMatcher)
			value := ""
			if matched = cursor.MatchOne(valueMatcher); matched.Code == valueToken {
				value = matched.Text(cursor)
			}
			ret = append(ret, entry{key: key, value: trimRight(value), line: line})
		default:
			return nil, fmt.Errorf("line %v: unexpected input", line)
		}
	}
	return ret, nil
}

func trimRight(value string) string {
	end := len(value)
	for end > 0 {
		b := value[end-1]
		if b != ' ' && b != '\t' && b != '\r' {
			break
		}
		end--
	}
	return value[:end]
}
