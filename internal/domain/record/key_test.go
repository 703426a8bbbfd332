package record

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/errs"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string", value: "BER", want: "BER"},
		{name: "bytes", value: []byte("CDG"), want: "CDG"},
		{name: "int", value: 5, want: "5"},
		{name: "int32", value: int32(-7), want: "-7"},
		{name: "int64", value: int64(1234567890123), want: "1234567890123"},
		{name: "uint", value: uint(9), want: "9"},
		{name: "integral float", value: 100.0, want: "100.0"},
		{name: "fractional float", value: 52.52, want: "52.52"},
		{name: "negative float", value: -13.405, want: "-13.405"},
		{name: "float32", value: float32(0.5), want: "0.5"},
		{name: "tiny float", value: 0.00001, want: "1e-05"},
		{name: "huge float", value: 1e16, want: "1e+16"},
		{name: "zero float", value: 0.0, want: "0.0"},
		{name: "nan", value: math.NaN(), want: "nan"},
		{name: "true", value: true, want: "True"},
		{name: "false", value: false, want: "False"},
		{name: "nil", value: nil, want: "None"},
		{name: "time", value: time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), want: "2024-01-01 08:30:00"},
		{name: "time with micros", value: time.Date(2024, 1, 1, 8, 30, 0, 1500, time.UTC), want: "2024-01-01 08:30:00.000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestFormatValue_StableAcrossCalls(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "1.1", FormatValue(1.1))
		assert.Equal(t, "2.0", FormatValue(float64(2)))
	}
}

func TestKey(t *testing.T) {
	r := Record{"city_id": int64(5), "query_time": "2024-01-01", "population": int64(100)}

	key, err := Key(r, []string{"city_id", "query_time"})
	require.NoError(t, err)
	assert.Equal(t, "52024-01-01", key)

	key, err = Key(r, []string{"query_time", "city_id"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-015", key, "column order is significant")
}

func TestKey_SameValueDifferentTypes(t *testing.T) {
	fromAPI := Record{"city_id": 5}
	fromStore := Record{"city_id": int64(5)}

	a, err := Key(fromAPI, []string{"city_id"})
	require.NoError(t, err)
	b, err := Key(fromStore, []string{"city_id"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKey_Errors(t *testing.T) {
	_, err := Key(Record{"iata": "BER"}, nil)
	assert.ErrorIs(t, err, errs.ErrKeyColumnMissing)

	_, err = Key(Record{"iata": "BER"}, []string{"icao"})
	assert.ErrorIs(t, err, errs.ErrKeyColumnMissing)
	assert.Contains(t, err.Error(), `"icao"`)
}

func TestTuple_DistinguishesCollidingKeys(t *testing.T) {
	cols := []string{"a", "b"}
	left := Record{"a": "1", "b": "23"}
	right := Record{"a": "12", "b": "3"}

	leftKey, _ := Key(left, cols)
	rightKey, _ := Key(right, cols)
	assert.Equal(t, leftKey, rightKey)
	assert.NotEqual(t, Tuple(left, cols), Tuple(right, cols))
}
