// FILE: sanitizer/sanitizer.go
// Package sanitizer rewrites text before it reaches a log sink, using
// ordered rules made of filter flags and a transform.
package sanitizer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // Control characters (unicode.IsControl)
	FilterLayout                          // Control characters other than '\n' and '\t'
	FilterEscape                          // ESC, the start of terminal control sequences
	FilterShellSpecial                    // Common shell metacharacters
)

// Transform flags for character transformation
const (
	TransformStrip     uint64 = 1 << iota // Removes the character
	TransformHexEncode                    // Encodes the UTF-8 bytes as "<XXYY>"
	TransformReplace                      // Replaces the character with '?'
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw      PolicyPreset = "raw"      // No-op
	PolicyTxt      PolicyPreset = "txt"      // Hex-encodes everything non-printable, line breaks included
	PolicyLine     PolicyPreset = "line"     // Hex-encodes control characters but keeps line breaks and tabs
	PolicyTerminal PolicyPreset = "terminal" // Strips terminal escape sequences' lead byte
	PolicyShell    PolicyPreset = "shell"    // Strips shell metacharacters and whitespace
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:      {},
	PolicyTxt:      {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyLine:     {{filter: FilterLayout, transform: TransformHexEncode}},
	PolicyTerminal: {{filter: FilterEscape, transform: TransformStrip}},
	PolicyShell:    {{filter: FilterShellSpecial, transform: TransformStrip}},
}

var filterCheckers = map[uint64]func(rune) bool{
	FilterNonPrintable: func(r rune) bool { return !strconv.IsPrint(r) },
	FilterControl:      unicode.IsControl,
	FilterLayout: func(r rune) bool {
		return r != '\n' && r != '\t' && unicode.IsControl(r)
	},
	FilterEscape: func(r rune) bool { return r == 0x1b },
	FilterShellSpecial: func(r rune) bool {
		switch r {
		case '`', '$', ';', '|', '&', '>', '<', '(', ')', '#':
			return true
		}
		return unicode.IsSpace(r)
	},
}

// ParsePolicy validates a policy name.
func ParsePolicy(name string) (PolicyPreset, error) {
	p := PolicyPreset(strings.ToLower(strings.TrimSpace(name)))
	if p == "" {
		return PolicyRaw, nil
	}
	if _, ok := policyRules[p]; !ok {
		return "", fmt.Errorf("sanitizer: unknown policy '%s'", name)
	}
	return p, nil
}

// Sanitizer provides chainable text sanitization. It reuses an internal
// buffer and is not safe for concurrent use.
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a passthrough Sanitizer
func New() *Sanitizer {
	return &Sanitizer{
		rules: []rule{},
		buf:   make([]byte, 0, 256),
	}
}

// Rule appends a custom rule; earlier rules win
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Passthrough reports whether the sanitizer has no rules
func (s *Sanitizer) Passthrough() bool {
	return len(s.rules) == 0
}

// Sanitize applies all configured rules to the input string
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}
	s.buf = s.buf[:0]

	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				applyTransform(&s.buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			s.buf = utf8.AppendRune(s.buf, r)
		}
	}

	return string(s.buf)
}

func matchesFilter(r rune, filterMask uint64) bool {
	for flag, checker := range filterCheckers {
		if (filterMask&flag) != 0 && checker(r) {
			return true
		}
	}
	return false
}

func applyTransform(buf *[]byte, r rune, transformMask uint64) {
	switch {
	case (transformMask & TransformStrip) != 0:

	case (transformMask & TransformHexEncode) != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		*buf = append(*buf, '<')
		*buf = append(*buf, hex.EncodeToString(runeBytes[:n])...)
		*buf = append(*buf, '>')

	case (transformMask & TransformReplace) != 0:
		*buf = append(*buf, '?')
	}
}

var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders any value as compact single-line text. Strings, errors and
// Stringers render as themselves, other values through spew.
func Dump(v any) string {
	switch val := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return val
	case []byte:
		return string(val)
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(val)
	}
	var b bytes.Buffer
	dumper.Fprintf(&b, "%+v", v)
	return string(bytes.TrimSpace(b.Bytes()))
}
