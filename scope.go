// FILE: scope.go
package sinklog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/sinklog/sanitizer"
)

// OriginalFormatKey is the reserved scope parameter holding a message template.
// A scope carrying it renders as the template with its holes filled.
const OriginalFormatKey = "{OriginalFormat}"

// KeyValue is one entry of an ordered scope parameter list.
type KeyValue struct {
	Key   string
	Value any
}

// stateDumper renders opaque states for hashing and display
var stateDumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Scope is an immutable snapshot of a state pushed with BeginScope.
type Scope struct {
	id     uint64
	hash   uint64
	state  any
	params []KeyValue
	text   string
	cached bool
}

func newScope(id uint64, state any) *Scope {
	s := &Scope{
		id:    id,
		hash:  stateHash(state),
		state: state,
	}

	var format string
	var hasFormat bool
	switch v := state.(type) {
	case []KeyValue:
		s.params = make([]KeyValue, 0, len(v))
		for _, kv := range v {
			if kv.Key == OriginalFormatKey {
				format, hasFormat = fmt.Sprint(kv.Value), true
				continue
			}
			s.params = append(s.params, kv)
		}
	case map[string]any:
		keys := sortedKeys(v)
		s.params = make([]KeyValue, 0, len(keys))
		for _, k := range keys {
			if k == OriginalFormatKey {
				format, hasFormat = fmt.Sprint(v[k]), true
				continue
			}
			s.params = append(s.params, KeyValue{Key: k, Value: v[k]})
		}
	case map[string]string:
		keys := sortedKeys(v)
		s.params = make([]KeyValue, 0, len(keys))
		for _, k := range keys {
			if k == OriginalFormatKey {
				format, hasFormat = v[k], true
				continue
			}
			s.params = append(s.params, KeyValue{Key: k, Value: v[k]})
		}
	}

	if hasFormat {
		s.text = renderTemplate(format, s.params)
		s.cached = true
	}
	return s
}

// ID returns the identifier assigned when the scope was pushed.
func (s *Scope) ID() uint64 { return s.id }

// Hash returns the hash of the scope state.
func (s *Scope) Hash() uint64 { return s.hash }

// State returns the original state value.
func (s *Scope) State() any { return s.state }

// Parameters returns the key/value view of a mapping state, without the
// reserved template entry. Other states have no parameters.
func (s *Scope) Parameters() []KeyValue {
	out := make([]KeyValue, len(s.params))
	copy(out, s.params)
	return out
}

// String renders the scope for a log line.
func (s *Scope) String() string {
	if s.cached {
		return s.text
	}
	if len(s.params) > 0 {
		var sb strings.Builder
		for i, kv := range s.params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('[')
			sb.WriteString(kv.Key)
			sb.WriteString("] = \"")
			sb.WriteString(valueText(kv.Value))
			sb.WriteByte('"')
		}
		return sb.String()
	}
	return valueText(s.state)
}

// ScopeStack keeps the active scopes of one logger in push order.
// It is not safe for concurrent use; the owning logger's lock guards it.
type ScopeStack struct {
	nextID  uint64
	entries []*Scope
	byHash  map[uint64][]uint64
}

// NewScopeStack creates an empty stack.
func NewScopeStack() *ScopeStack {
	return &ScopeStack{byHash: make(map[uint64][]uint64)}
}

// Push snapshots state into a new scope and appends it.
func (ss *ScopeStack) Push(state any) *Scope {
	ss.nextID++
	s := newScope(ss.nextID, state)
	ss.entries = append(ss.entries, s)
	ss.byHash[s.hash] = append(ss.byHash[s.hash], s.id)
	return s
}

// Remove drops the scope with the given id. It reports whether it was present.
func (ss *ScopeStack) Remove(id uint64) bool {
	for i, s := range ss.entries {
		if s.id != id {
			continue
		}
		ss.entries = append(ss.entries[:i], ss.entries[i+1:]...)
		ids := ss.byHash[s.hash]
		for j, v := range ids {
			if v == id {
				ids = append(ids[:j], ids[j+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(ss.byHash, s.hash)
		} else {
			ss.byHash[s.hash] = ids
		}
		return true
	}
	return false
}

// Len returns the number of active scopes.
func (ss *ScopeStack) Len() int {
	return len(ss.entries)
}

// Chain returns the active scopes, oldest first.
func (ss *ScopeStack) Chain() []*Scope {
	out := make([]*Scope, len(ss.entries))
	copy(out, ss.entries)
	return out
}

// Strings returns the rendered chain, oldest first.
func (ss *ScopeStack) Strings() []string {
	if len(ss.entries) == 0 {
		return nil
	}
	out := make([]string, len(ss.entries))
	for i, s := range ss.entries {
		out[i] = s.String()
	}
	return out
}

// LookupHash returns the active scopes whose state hashes to h, oldest first.
func (ss *ScopeStack) LookupHash(h uint64) []*Scope {
	ids := ss.byHash[h]
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Scope, 0, len(ids))
	for _, s := range ss.entries {
		for _, id := range ids {
			if s.id == id {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// stateHash hashes the dumped form of a state
func stateHash(state any) uint64 {
	return xxhash.Sum64String(stateDumper.Sdump(state))
}

// valueText renders a scope value the way log arguments are rendered
func valueText(v any) string {
	if v == nil {
		return "(null)"
	}
	return sanitizer.Dump(v)
}

// renderTemplate fills "{Name}" holes from params. A hole may carry a format
// suffix ("{Id:D4}") which is ignored. "{{" and "}}" are literal braces.
func renderTemplate(format string, params []KeyValue) string {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			sb.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			sb.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				sb.WriteString(format[i:])
				return sb.String()
			}
			hole := format[i+1 : i+end]
			name := hole
			if j := strings.IndexAny(name, ":,"); j >= 0 {
				name = name[:j]
			}
			if v, ok := lookupParam(params, name); ok {
				sb.WriteString(valueText(v))
			} else {
				sb.WriteString(format[i : i+end+1])
			}
			i += end
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func lookupParam(params []KeyValue, name string) (any, bool) {
	for _, kv := range params {
		if kv.Key == name {
			return kv.Value, true
		}
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
