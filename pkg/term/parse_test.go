package term

import (
	"slices"
	"testing"

	"github.com/matzehuels/netergm/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr   string
		name   string
		args   []string
		params map[string]string
		canon  string
	}{
		{"edges", "edges", nil, nil, "edges"},
		{"  isolates ", "isolates", nil, nil, "isolates"},
		{"istar()", "istar", nil, nil, "istar"},
		{"istar(2)", "istar", []string{"2"}, nil, "istar(2)"},
		{"absdiff(size)", "absdiff", []string{"size"}, nil, "absdiff(size)"},
		{`absdiff("size")`, "absdiff", []string{"size"}, nil, "absdiff(size)"},
		{"absdiff( size , pow = 2 )", "absdiff", []string{"size"}, map[string]string{"pow": "2"}, "absdiff(size, pow=2)"},
		{"absdiff(attr=size)", "absdiff", nil, map[string]string{"attr": "size"}, "absdiff(attr=size)"},
		{"nodematch('role')", "nodematch", []string{"role"}, nil, "nodematch(role)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.expr, err)
			}
			if s.Name != tt.name {
				t.Errorf("Name = %q, want %q", s.Name, tt.name)
			}
			if !slices.Equal(s.Args, tt.args) {
				t.Errorf("Args = %v, want %v", s.Args, tt.args)
			}
			if len(s.Params) != len(tt.params) {
				t.Errorf("Params = %v, want %v", s.Params, tt.params)
			}
			for k, v := range tt.params {
				if s.Params[k] != v {
					t.Errorf("Params[%s] = %q, want %q", k, s.Params[k], v)
				}
			}
			if s.String() != tt.canon {
				t.Errorf("String() = %q, want %q", s.String(), tt.canon)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"(size)",
		"absdiff(size",
		"absdiff(size))",
		"absdiff((size))",
		"absdiff(size,)",
		"absdiff(pow=2, size)",
		"absdiff(size, pow=)",
		"absdiff(size, pow=1, pow=2)",
		"2star",
		"abs diff(size)",
	}
	for _, expr := range bad {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			if err == nil {
				t.Fatalf("Parse(%q) error = nil, want error", expr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Parse(%q) code = %v, want %v", expr, errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestSpecArg(t *testing.T) {
	s := MustParse("absdiff(size, pow=3)")
	if v, ok := s.Arg(0, "attr"); !ok || v != "size" {
		t.Errorf("Arg(0) = %q, %v, want size, true", v, ok)
	}
	if v, ok := s.Arg(1, "pow"); !ok || v != "3" {
		t.Errorf("Arg(pow) = %q, %v, want 3, true", v, ok)
	}
	if _, ok := s.Arg(2, "other"); ok {
		t.Error("Arg(2) found a missing argument")
	}
}
