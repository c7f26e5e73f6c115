package entity

import (
	"errors"
	"strings"

	"github.com/rivo/uniseg"
)

var (
	ErrNameEmpty          = errors.New("a name must not be empty")
	ErrNameTooLong        = errors.New("a name must not be more than 256 graphemes long")
	ErrNameForbiddenChars = errors.New(`a name must not contain any of: / ( ) " < > \ { }`)
)

const maxNameGraphemes = 256

const forbiddenNameChars = `/()"<>\{}`

// Name is a validated subscriber display name. The zero value is not valid;
// the only way to obtain one is ParseName.
type Name struct {
	value string
}

// ParseName validates a raw display name. Trimming is used only to detect
// whitespace-only input; the stored value keeps the original string and the
// length check runs against it untrimmed.
func ParseName(raw string) (Name, error) {
	if strings.TrimSpace(raw) == "" {
		return Name{}, ErrNameEmpty
	}
	if uniseg.GraphemeClusterCount(raw) > maxNameGraphemes {
		return Name{}, ErrNameTooLong
	}
	if strings.ContainsAny(raw, forbiddenNameChars) {
		return Name{}, ErrNameForbiddenChars
	}
	return Name{value: raw}, nil
}

func (n Name) String() string {
	return n.value
}
