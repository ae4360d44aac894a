package cli

import (
	"encoding/json"
	"testing"

	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogFloorsText(t *testing.T) {
	out, err := executeCommand("--format", "text", "catalog", "floors")
	require.NoError(t, err)
	assert.Contains(t, out, "FLOOR")
	assert.Contains(t, out, "Ground Floor")
	assert.Contains(t, out, "Lobby")
}

func TestCatalogCountryCodesJSON(t *testing.T) {
	out, err := executeCommand("--format", "json", "catalog", "country-codes")
	require.NoError(t, err)

	var codes []intake.CountryCode
	require.NoError(t, json.Unmarshal([]byte(out), &codes))
	assert.Len(t, codes, 11)
}

func TestCatalogCountryCodesMarksDefault(t *testing.T) {
	out, err := executeCommand("--format", "text", "catalog", "country-codes")
	require.NoError(t, err)
	assert.Regexp(t, `\+94\s+\S+ LK\s+\*`, out)
}
