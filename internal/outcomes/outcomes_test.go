package outcomes

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	o, err := Parse([]byte(`{
		"ARI": {"opponent": "LAR", "won": false},
		"LAR": {"opponent": "ARI", "won": true},
		"ATL": {"opponent": "PHI", "won": true, "is_underdog": true},
		"PHI": {"opponent": "ATL", "won": false}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 4, o.TotalGames())
	assert.Equal(t, map[string]bool{"LAR": true, "ATL": true}, o.Winners())
	assert.Equal(t, []string{"ARI", "ATL", "LAR", "PHI"}, o.Teams())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		team  string
	}{
		{name: "not json", input: `{"ARI":`},
		{name: "wrong shape", input: `["ARI"]`},
		{name: "missing won", input: `{"ARI": {"opponent": "LAR"}}`, team: "ARI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.team, vErr.Team)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	o, err := Load(filepath.Join(dir, "week_1_game_results.json"))
	require.NoError(t, err)
	assert.Nil(t, o)

	path := filepath.Join(dir, "week_2_game_results.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"BUF": {"opponent": "NYJ", "won": true}}`), 0o644))

	o, err = Load(path)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, 1, o.TotalGames())
}
