package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/errs"
)

func TestSet_Validate(t *testing.T) {
	s := NewSet([]string{"iata", "airport_name"},
		Record{"iata": "BER", "airport_name": "Berlin Brandenburg"},
	)
	require.NoError(t, s.Validate())

	s.Append(Record{"iata": "CDG"})
	err := s.Validate()
	assert.ErrorIs(t, err, errs.ErrSchemaMismatch)

	s.Rows[1] = Record{"iata": "CDG", "time_zone": "Europe/Paris"}
	err = s.Validate()
	assert.ErrorIs(t, err, errs.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "airport_name")
}

func TestSet_ValuesAndProject(t *testing.T) {
	s := NewSet([]string{"city_id", "airport_id", "iata"},
		Record{"city_id": int64(1), "airport_id": int64(7), "iata": "BER"},
	)

	assert.Equal(t, []any{int64(1), int64(7), "BER"}, s.Values(s.Rows[0]))
	assert.True(t, s.HasColumn("iata"))
	assert.False(t, s.HasColumn("icao"))

	bridge := s.Project("city_id", "airport_id")
	assert.Equal(t, []string{"city_id", "airport_id"}, bridge.Columns)
	assert.Equal(t, Record{"city_id": int64(1), "airport_id": int64(7)}, bridge.Rows[0])
	assert.Len(t, s.Rows[0], 3, "projection must not mutate the source")
}

func TestRecord_Accessors(t *testing.T) {
	r := Record{
		"int32":   int32(4),
		"float":   52.0,
		"frac":    52.5,
		"text":    "13.4",
		"bytes":   []byte("42"),
		"nothing": nil,
	}

	n, ok := r.Int64("int32")
	assert.True(t, ok)
	assert.Equal(t, int64(4), n)

	n, ok = r.Int64("float")
	assert.True(t, ok)
	assert.Equal(t, int64(52), n)

	_, ok = r.Int64("frac")
	assert.False(t, ok)

	n, ok = r.Int64("bytes")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	f, ok := r.Float64("text")
	assert.True(t, ok)
	assert.InDelta(t, 13.4, f, 1e-9)

	s, ok := r.String("bytes")
	assert.True(t, ok)
	assert.Equal(t, "42", s)

	_, ok = r.String("nothing")
	assert.False(t, ok)
	_, ok = r.Float64("missing")
	assert.False(t, ok)
}
