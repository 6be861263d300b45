package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstJSONValue(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		state ScanState
	}{
		{
			name:  "bare array",
			text:  `[{"name":"x"}]`,
			want:  `[{"name":"x"}]`,
			state: ScanFound,
		},
		{
			name:  "prose around object",
			text:  "Sure, here is the JSON:\n{\"a\": 1}\nHope that helps!",
			want:  `{"a": 1}`,
			state: ScanFound,
		},
		{
			name:  "braces inside strings",
			text:  `[{"desc":"a } tricky ] value"}]`,
			want:  `[{"desc":"a } tricky ] value"}]`,
			state: ScanFound,
		},
		{
			name:  "escaped quote in string",
			text:  `{"a":"quote \" and } brace"}`,
			want:  `{"a":"quote \" and } brace"}`,
			state: ScanFound,
		},
		{
			name:  "nested",
			text:  `{"a":{"b":[1,2]}} trailing`,
			want:  `{"a":{"b":[1,2]}}`,
			state: ScanFound,
		},
		{
			name:  "no json at all",
			text:  "I could not find any concepts.",
			state: ScanEmpty,
		},
		{
			name:  "unterminated",
			text:  `[{"name":"x"`,
			state: ScanMalformed,
		},
		{
			name:  "empty input",
			text:  "",
			state: ScanEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, state := FirstJSONValue(tt.text)
			assert.Equal(t, tt.state, state)
			assert.Equal(t, tt.want, got)
		})
	}
}
