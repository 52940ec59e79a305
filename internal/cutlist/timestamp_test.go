package cutlist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "00:00:00.000", FormatTimestamp(0))
	assert.Equal(t, "01:02:03.004", FormatTimestamp(3723004))
	assert.Equal(t, "23:59:59.999", FormatTimestamp(86399999))
	assert.Equal(t, "00:00:01.500", FormatTimestamp(1500.7))
	assert.Equal(t, "", FormatTimestamp(math.NaN()))
	assert.Equal(t, "", FormatTimestamp(math.Inf(1)))
	assert.Equal(t, "", FormatTimestamp(-1))
}

func TestParseTimestamp(t *testing.T) {
	ms, err := ParseTimestamp("01:02:03.004")
	require.NoError(t, err)
	assert.Equal(t, int64(3723004), ms)

	for _, bad := range []string{
		"",
		"1:02:03.004",
		"01:02:03.0045",
		"01:02:03,004",
		"01-02-03.004",
		"ab:cd:ef.ghi",
		"00:60:00.000",
		"00:00:60.000",
		"+1:00:00.000",
	} {
		_, err := ParseTimestamp(bad)
		assert.ErrorIs(t, err, ErrUnparsableTimestamp, "input %q", bad)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for ms := int64(0); ms <= 86399999; ms += 7919 {
		got, err := ParseTimestamp(FormatTimestamp(float64(ms)))
		require.NoError(t, err)
		require.Equal(t, ms, got)
	}
	got, err := ParseTimestamp(FormatTimestamp(86399999))
	require.NoError(t, err)
	assert.Equal(t, int64(86399999), got)
}
