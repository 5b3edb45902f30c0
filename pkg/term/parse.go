package term

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/netergm/pkg/errors"
)

// Spec is a parsed term expression such as "absdiff(size, pow=2)".
type Spec struct {
	Name   string
	Args   []string          // Positional arguments in order
	Params map[string]string // Named arguments
}

// Parse parses a term expression. The grammar is
//
//	term   = name [ "(" [ arg { "," arg } ] ")" ]
//	arg    = value | key "=" value
//
// Whitespace around tokens is ignored. Parse checks syntax only; unknown
// names are reported by [Bind].
func Parse(expr string) (Spec, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Spec{}, errors.New(errors.ErrCodeInvalidInput, "empty term expression")
	}

	name, rest, hasArgs := strings.Cut(expr, "(")
	name = strings.TrimSpace(name)
	if !validName(name) {
		return Spec{}, errors.New(errors.ErrCodeInvalidInput, "invalid term name in %q", expr)
	}
	spec := Spec{Name: name}
	if !hasArgs {
		return spec, nil
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasSuffix(rest, ")") || strings.ContainsAny(rest[:len(rest)-1], "()") {
		return Spec{}, errors.New(errors.ErrCodeInvalidInput, "unbalanced parentheses in %q", expr)
	}
	body := strings.TrimSpace(rest[:len(rest)-1])
	if body == "" {
		return spec, nil
	}

	for _, raw := range strings.Split(body, ",") {
		arg := strings.TrimSpace(raw)
		if arg == "" {
			return Spec{}, errors.New(errors.ErrCodeInvalidInput, "empty argument in %q", expr)
		}
		key, value, named := strings.Cut(arg, "=")
		if !named {
			if len(spec.Params) > 0 {
				return Spec{}, errors.New(errors.ErrCodeInvalidInput, "positional argument after named argument in %q", expr)
			}
			spec.Args = append(spec.Args, unquote(arg))
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !validName(key) || value == "" {
			return Spec{}, errors.New(errors.ErrCodeInvalidInput, "malformed argument %q in %q", arg, expr)
		}
		if spec.Params == nil {
			spec.Params = make(map[string]string)
		}
		if _, dup := spec.Params[key]; dup {
			return Spec{}, errors.New(errors.ErrCodeInvalidInput, "argument %s given twice in %q", key, expr)
		}
		spec.Params[key] = unquote(value)
	}
	return spec, nil
}

// MustParse is like [Parse] but panics on error. It is intended for
// package-level term lists in tests and examples.
func MustParse(expr string) Spec {
	s, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// Arg returns the argument at position pos, or the named argument key.
func (s Spec) Arg(pos int, key string) (string, bool) {
	if v, ok := s.Params[key]; ok {
		return v, true
	}
	if pos < len(s.Args) {
		return s.Args[pos], true
	}
	return "", false
}

// NumArgs returns the total number of positional and named arguments.
func (s Spec) NumArgs() int { return len(s.Args) + len(s.Params) }

// String returns the canonical form of the expression, with positional
// arguments first and named arguments in sorted key order.
func (s Spec) String() string {
	if s.NumArgs() == 0 {
		return s.Name
	}
	parts := append([]string(nil), s.Args...)
	for _, k := range slices.Sorted(maps.Keys(s.Params)) {
		parts = append(parts, k+"="+s.Params[k])
	}
	return s.Name + "(" + strings.Join(parts, ", ") + ")"
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// unquote strips one layer of matching double or single quotes, so that
// absdiff("size") and absdiff(size) are equivalent.
func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		if u, err := strconv.Unquote(`"` + s[1:len(s)-1] + `"`); err == nil {
			return u
		}
		return s[1 : len(s)-1]
	}
	return s
}
