package msg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMessage_Embedded(t *testing.T) {
	got := GetMessage("sync.appended", 3, "cities", 1, 0)
	assert.Equal(t, "Appended 3 rows into table cities (1 already present, 0 duplicated in batch)", got)
}

func TestGetMessage_Arguments(t *testing.T) {
	tests := []struct {
		name string
		arg  any
		want string
	}{
		{name: "float", arg: 1.5, want: "Skipping 1.5 record: x"},
		{name: "duration", arg: 2 * time.Second, want: "Skipping 2s record: x"},
		{name: "error", arg: errors.New("boom"), want: "Skipping boom record: x"},
		{name: "slice", arg: []string{"a"}, want: `Skipping ["a"] record: x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetMessage("ingest.skipped", tt.arg, "x"))
		})
	}
}

func TestGetMessage_Missing(t *testing.T) {
	assert.Equal(t, "Message not found: nope", GetMessage("nope"))
}

func TestInit_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yml")
	require.NoError(t, os.WriteFile(path, []byte("custom:\n  hello: \"hi {0}\"\n"), 0o644))

	require.NoError(t, Init(path))
	t.Cleanup(func() { _ = Init("messages.yml") })

	assert.Equal(t, "hi there", GetMessage("custom.hello", "there"))
}
