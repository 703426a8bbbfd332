package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/model"
)

func writeConfig(t *testing.T, ninjasURL string) string {
	t.Helper()
	content := fmt.Sprintf(`
app:
  log:
    level: error
  ingest:
    cities:
      - Berlin
  db:
    driver: memory
    create-missing: true
  integration:
    timeout: 2s
    max-retries: 0
    ninjas:
      url: %s
      api-key: test
`, ninjasURL)
	path := filepath.Join(t.TempDir(), "application.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := getRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	ninjas := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("name") != "Berlin" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"name":"Berlin","country":"DE","latitude":52.52,"longitude":13.405,"population":3644826}]`))
	}))
	defer ninjas.Close()

	out, err := execute(t, "run", "--config", writeConfig(t, ninjas.URL), "--entities", "cities,populations")
	require.NoError(t, err, out)

	var response model.IngestResponseDTO
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	require.Len(t, response.Results, 2)
	assert.Equal(t, "cities", response.Results[0].Table)
	assert.Equal(t, 1, response.Results[0].Appended)
	assert.Equal(t, "populations", response.Results[1].Table)
	assert.Equal(t, 1, response.Results[1].Appended)
}

func TestRunCommand_UnknownEntity(t *testing.T) {
	_, err := execute(t, "run", "--config", writeConfig(t, "http://127.0.0.1:1"), "--entities", "boats")
	assert.Error(t, err)
}

func TestMigrateCommand_Memory(t *testing.T) {
	out, err := execute(t, "migrate", "--config", writeConfig(t, "http://127.0.0.1:1"))
	require.NoError(t, err)
	assert.Contains(t, out, "no migration")
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
