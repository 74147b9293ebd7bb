package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentExport = `date,username,model,quantity,exceeds_quota,total_monthly_quota
2025-06-01T10:15:00Z,alice,claude-sonnet-4,2.5,false,300
2025-06-01T11:00:00Z,bob,gpt-4o-2024-11-20,1,TRUE,300
`

func TestParseCurrentHeaders(t *testing.T) {
	recs, err := Parse(strings.NewReader(currentExport))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, time.Date(2025, 6, 1, 10, 15, 0, 0, time.UTC), recs[0].Timestamp)
	assert.Equal(t, "alice", recs[0].User)
	assert.Equal(t, "claude-sonnet-4", recs[0].Model)
	assert.Equal(t, 2.5, recs[0].RequestsUsed)
	assert.False(t, recs[0].ExceedsQuota)
	assert.Equal(t, "300", recs[0].TotalMonthlyQuota)
	assert.True(t, recs[1].ExceedsQuota)
}

func TestParseLegacyHeadersAnyOrder(t *testing.T) {
	in := `"Model","Requests Used","User","Timestamp","Total Monthly Quota","Exceeds Monthly Quota","Extra"
"o3-mini","3","carol","2025-05-31 23:59:00","Unlimited","false","x"
`
	recs, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "carol", recs[0].User)
	assert.Equal(t, "o3-mini", recs[0].Model)
	assert.Equal(t, 3.0, recs[0].RequestsUsed)
	assert.Equal(t, "Unlimited", recs[0].TotalMonthlyQuota)
	assert.Equal(t, time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC), recs[0].Timestamp)
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, ts := range []string{
		"2025-06-01T02:00:00+02:00",
		"2025-06-01T00:00:00",
		"2025-06-01 00:00:00",
		"2025-06-01",
	} {
		in := "timestamp,user,model,requests used,exceeds monthly quota,total monthly quota\n" +
			ts + ",u,o3,1,false,50\n"
		recs, err := Parse(strings.NewReader(in))
		require.NoError(t, err, ts)
		assert.Equal(t, "2025-06-01", recs[0].Day(), ts)
		assert.Equal(t, time.UTC, recs[0].Timestamp.Location(), ts)
	}
}

func TestParseSkipsBlankRows(t *testing.T) {
	in := currentExport + ",,,,,\n\n2025-06-02T09:00:00Z,carol,o3,1,false,300\n"
	recs, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestParseNoData(t *testing.T) {
	for _, in := range []string{"", "date,username,model,quantity,exceeds_quota,total_monthly_quota\n"} {
		_, err := Parse(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrNoData)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("date,username,model\n2025-06-01,u,o3\n"))
	var he *HeaderError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, "CSV header must contain at least 6 columns", err.Error())

	_, err = Parse(strings.NewReader("date,username,model,quantity,foo,bar\n2025-06-01,u,o3,1,false,50\n"))
	require.True(t, errors.As(err, &he))
	assert.Equal(t, []string{"Exceeds Monthly Quota", "Total Monthly Quota"}, he.Missing)
	assert.Contains(t, err.Error(), "CSV is missing required columns: Exceeds Monthly Quota, Total Monthly Quota")
}

func TestParseRowErrors(t *testing.T) {
	header := "date,username,model,quantity,exceeds_quota,total_monthly_quota\n"
	tests := []struct {
		name   string
		row    string
		column string
		value  string
	}{
		{"bad timestamp", "yesterday,u,o3,1,false,50", "Timestamp", "yesterday"},
		{"empty user", "2025-06-01,,o3,1,false,50", "User", ""},
		{"non numeric", "2025-06-01,u,o3,lots,false,50", "Requests Used", "lots"},
		{"negative", "2025-06-01,u,o3,-1,false,50", "Requests Used", "-1"},
		{"bad flag", "2025-06-01,u,o3,1,maybe,50", "Exceeds Monthly Quota", "maybe"},
		{"short row", "2025-06-01,u,o3,1", "Exceeds Monthly Quota", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := header + "2025-06-01,ok,o3,1,false,50\n" + tt.row + "\n"
			_, err := Parse(strings.NewReader(in))
			var re *RowError
			require.True(t, errors.As(err, &re), "got %v", err)
			assert.Equal(t, 3, re.Line)
			assert.Equal(t, tt.column, re.Column)
			assert.Equal(t, tt.value, re.Value)
		})
	}
}
