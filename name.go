package customelements

import "regexp"

var namePattern = regexp.MustCompile(`^[a-z][.0-9_a-z]*-[-.0-9_a-z]*$`)

var reservedNames = map[string]struct{}{
	"annotation-xml":   {},
	"color-profile":    {},
	"font-face":        {},
	"font-face-src":    {},
	"font-face-uri":    {},
	"font-face-format": {},
	"font-face-name":   {},
	"missing-glyph":    {},
}

// ValidName reports whether name can be used as a custom element name: a
// lower-case ASCII letter, then name characters including at least one
// hyphen, and not one of the reserved SVG and MathML names.
func ValidName(name string) bool {
	if _, reserved := reservedNames[name]; reserved {
		return false
	}
	return namePattern.MatchString(name)
}
