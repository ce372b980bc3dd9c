package loader

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "nil dst",
			dst:      nil,
			src:      map[string]any{"a": 1},
			expected: map[string]any{"a": 1},
		},
		{
			name:     "nil src",
			dst:      map[string]any{"a": 1},
			src:      nil,
			expected: map[string]any{"a": 1},
		},
		{
			name:     "src overrides dst",
			dst:      map[string]any{"a": 1},
			src:      map[string]any{"a": 2, "b": 3},
			expected: map[string]any{"a": 2, "b": 3},
		},
		{
			name: "nested merge",
			dst: map[string]any{
				"scroll": map[string]any{"mode": "if-needed", "block": "nearest"},
			},
			src: map[string]any{
				"scroll": map[string]any{"mode": "always"},
			},
			expected: map[string]any{
				"scroll": map[string]any{"mode": "always", "block": "nearest"},
			},
		},
		{
			name:     "scalar replaces map",
			dst:      map[string]any{"scroll": map[string]any{"mode": "always"}},
			src:      map[string]any{"scroll": "off"},
			expected: map[string]any{"scroll": "off"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DeepMerge(tt.dst, tt.src)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("DeepMerge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClone(t *testing.T) {
	original := map[string]any{
		"string": "value",
		"int":    42,
		"nested": map[string]any{"deep": "data"},
		"array":  []any{"a", map[string]any{"k": "v"}},
	}

	cloned := Clone(original)

	original["string"] = "changed"
	original["nested"].(map[string]any)["deep"] = "modified"
	original["array"].([]any)[0] = "x"
	original["array"].([]any)[1].(map[string]any)["k"] = "w"

	want := map[string]any{
		"string": "value",
		"int":    42,
		"nested": map[string]any{"deep": "data"},
		"array":  []any{"a", map[string]any{"k": "v"}},
	}
	if diff := cmp.Diff(want, cloned); diff != "" {
		t.Errorf("clone was affected by original modification (-want +got):\n%s", diff)
	}
}

func TestClone_Nil(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("Clone(nil) should return nil")
	}
}
