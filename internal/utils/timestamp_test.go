package utils_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Paul200287/GradeTracker/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalBackendFormats(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)

	tests := map[string]string{
		"naive with fraction": `"2024-05-01T10:00:00.123456"`,
		"rfc3339":             `"2024-05-01T10:00:00.123456Z"`,
		"offset":              `"2024-05-01T12:00:00.123456+02:00"`,
		"space separated":     `"2024-05-01 10:00:00.123456"`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			var ts utils.Timestamp
			require.NoError(t, json.Unmarshal([]byte(raw), &ts))
			require.True(t, want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	t.Run("null", func(t *testing.T) {
		var ts utils.Timestamp
		require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
		require.True(t, ts.IsZero())
		require.Empty(t, ts.Display())
	})

	t.Run("garbage", func(t *testing.T) {
		var ts utils.Timestamp
		require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	})
}

func TestOptionalString(t *testing.T) {
	require.Nil(t, utils.OptionalString("   "))
	require.Equal(t, "Math", utils.Value(utils.OptionalString("  Math ")))
	require.Equal(t, "", utils.Value[string](nil))
}
