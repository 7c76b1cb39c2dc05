package nlp

import "fmt"

// Kind discriminates the three shapes a Key can take.
type Kind uint8

const (
	KindToken Kind = iota
	KindSpan
	KindDoc
)

func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindSpan:
		return "span"
	case KindDoc:
		return "doc"
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "token", "":
		return KindToken, nil
	case "span":
		return KindSpan, nil
	case "doc":
		return KindDoc, nil
	}
	return 0, fmt.Errorf("nlp: unknown key kind %q", s)
}

// Key identifies a matched region of a document by byte offsets. Keys are
// plain values: two keys are equal when kind and offsets agree.
type Key struct {
	Kind  Kind
	Start int
	End   int
}

// Len returns the byte length of the region.
func (k Key) Len() int {
	return k.End - k.Start
}

// Overlaps reports whether two keys share any byte.
func (k Key) Overlaps(o Key) bool {
	return k.Start < o.End && o.Start < k.End
}

// Contains reports whether o lies within k.
func (k Key) Contains(o Key) bool {
	return k.Start <= o.Start && o.End <= k.End
}

func (k Key) String() string {
	return fmt.Sprintf("%s[%d:%d]", k.Kind, k.Start, k.End)
}
