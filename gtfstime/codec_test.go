package gtfstime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfs-interstop/gtfstime"
)

func TestToSeconds(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "morning", input: "08:05:03", want: 29103},
		{name: "midnight", input: "00:00:00", want: 0},
		{name: "end of day", input: "23:59:59", want: 86399},
		{name: "past midnight not wrapped", input: "25:10:00", want: 90600},
		{name: "two days in", input: "48:00:00", want: 172800},
		{name: "surrounding whitespace", input: " 06:30:00 ", want: 23400},
		{name: "empty", input: "", wantErr: true},
		{name: "two components", input: "08:05", wantErr: true},
		{name: "four components", input: "08:05:03:00", wantErr: true},
		{name: "non-numeric", input: "ab:cd:ef", wantErr: true},
		{name: "negative component", input: "08:-5:03", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gtfstime.ToSeconds(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var malformed *gtfstime.MalformedTimeError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, tt.input, malformed.Value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToSecondsBatch(t *testing.T) {
	got, err := gtfstime.ToSecondsBatch([]string{"08:05:03", "25:10:00", "00:00:01"})
	require.NoError(t, err)
	assert.Equal(t, []int{29103, 90600, 1}, got)

	// Batch semantics match the scalar case per row.
	for i, v := range []string{"08:05:03", "25:10:00", "00:00:01"} {
		single, err := gtfstime.ToSeconds(v)
		require.NoError(t, err)
		assert.Equal(t, got[i], single)
	}

	_, err = gtfstime.ToSecondsBatch([]string{"08:05:03", "nope"})
	require.Error(t, err)
}
