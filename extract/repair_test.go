package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSONMissingKeyQuote(t *testing.T) {
	broken := `{"name":"graph", type":"technology"}`
	fixed := repairJSON(broken)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal([]byte(fixed), &parsed))
	assert.Equal(t, "technology", parsed["type"])
}

func TestRepairJSONTrailingComma(t *testing.T) {
	broken := `{"a":1,"b":2,}`
	fixed := repairJSON(broken)

	var parsed map[string]int
	require.NoError(t, json.Unmarshal([]byte(fixed), &parsed))
	assert.Equal(t, 2, parsed["b"])
}

func TestRepairJSONTrailingCommaInArray(t *testing.T) {
	broken := `[{"a":1},{"a":2},]`
	fixed := repairJSON(broken)

	var parsed []map[string]int
	require.NoError(t, json.Unmarshal([]byte(fixed), &parsed))
	assert.Len(t, parsed, 2)
}

func TestRepairJSONLeavesValidInputAlone(t *testing.T) {
	valid := `{"name":"graph","type":"technology","relevance":0.8}`
	assert.Equal(t, valid, repairJSON(valid))
}

func TestRepairJSONIgnoresValuesAfterColon(t *testing.T) {
	// Bare words in value position are not keys and must not gain quotes.
	valid := `{"enabled": true, "count": 3}`
	fixed := repairJSON(valid)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(fixed), &parsed))
	assert.Equal(t, true, parsed["enabled"])
}
