package truth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cfi/internal/truth"
)

func mustLoad(t *testing.T, csv string) *truth.Store {
	t.Helper()

	s, err := truth.Load(strings.NewReader(csv))
	require.NoError(t, err)

	return s
}

const sampleTruth = `Date Range,Case Receipts,All Decisions,Fear Established (Y),Fear Not Established (N),Closings
2024-01-15-2024-01-31,"1,050",900,150,700,50
2024-01-01-2024-01-14,90,80,10,60,5
`

func TestMerge_EmptyUpdatesIsIdentity(t *testing.T) {
	original := mustLoad(t, sampleTruth)

	merged, err := truth.Merge(original, truth.Records{})
	require.NoError(t, err)

	assert.Equal(t, original.Keys(), merged.Keys())
	assert.Equal(t, original.Fields(), merged.Fields())
	assert.Equal(t, original.Records(), merged.Records())
}

func TestMerge_FieldLevelOverwrite(t *testing.T) {
	store := truth.NewStore("", []string{truth.FieldCaseReceipts, truth.FieldClosings})
	store, err := truth.Merge(store, truth.Records{
		"2024-01-01-2024-01-14": {truth.FieldCaseReceipts: "90", truth.FieldClosings: "5"},
	})
	require.NoError(t, err)

	merged, err := truth.Merge(store, truth.Records{
		"2024-01-01-2024-01-14": {truth.FieldCaseReceipts: "100"},
	})
	require.NoError(t, err)

	got, ok := merged.Get("2024-01-01-2024-01-14")
	require.True(t, ok)
	assert.Equal(t, truth.Record{truth.FieldCaseReceipts: "100", truth.FieldClosings: "5"}, got)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	original := mustLoad(t, sampleTruth)
	before := original.Records()

	_, err := truth.Merge(original, truth.Records{
		"2024-01-01-2024-01-14": {truth.FieldCaseReceipts: "1"},
		"2024-02-01-2024-02-14": {truth.FieldCaseReceipts: "2"},
		"2024-03-01-2024-03-14": {"Notes": "new column"},
	})
	require.NoError(t, err)

	assert.Equal(t, before, original.Records())
	assert.Equal(t, 2, original.Len())
	assert.NotContains(t, original.Fields(), "Notes")
}

func TestMerge_AddsAndKeeps(t *testing.T) {
	original := mustLoad(t, sampleTruth)

	merged, err := truth.Merge(original, truth.Records{
		"2024-02-01-2024-02-14": {truth.FieldCaseReceipts: "7"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-01-01-2024-01-14",
		"2024-01-15-2024-01-31",
		"2024-02-01-2024-02-14",
	}, merged.Keys())

	kept, _ := merged.Get("2024-01-15-2024-01-31")
	assert.Equal(t, "1,050", kept[truth.FieldCaseReceipts])
}

func TestMerge_ChronologicalNotLexical(t *testing.T) {
	merged, err := truth.Merge(nil, truth.Records{
		"2024-10-1-2024-10-14":  {truth.FieldClosings: "1"},
		"2024-9-1-2024-9-14":    {truth.FieldClosings: "2"},
		"2023-12-15-2023-12-31": {truth.FieldClosings: "3"},
		"2024-9-15-2024-9-30":   {truth.FieldClosings: "4"},
		"2024-1-2-2024-1-15":    {truth.FieldClosings: "5"},
	})
	require.NoError(t, err)

	keys := merged.Keys()
	require.Len(t, keys, 5)

	var prev time.Time
	for _, k := range keys {
		start, err := truth.StartDate(k)
		require.NoError(t, err)
		assert.False(t, start.Before(prev), "%s out of order in %v", k, keys)
		prev = start
	}

	assert.Equal(t, "2023-12-15-2023-12-31", keys[0])
	assert.Equal(t, "2024-10-1-2024-10-14", keys[4])
}

func TestMerge_Associative(t *testing.T) {
	base := mustLoad(t, sampleTruth)

	a := truth.Records{
		"2024-01-01-2024-01-14": {truth.FieldCaseReceipts: "95"},
		"2024-02-01-2024-02-14": {truth.FieldAllDecisions: "10"},
	}
	b := truth.Records{
		"2024-01-01-2024-01-14": {truth.FieldClosings: "6"},
		"2024-03-01-2024-03-14": {truth.FieldCaseReceipts: "11"},
	}

	union := truth.Records{}
	for _, part := range []truth.Records{a, b} {
		for k, r := range part {
			if union[k] == nil {
				union[k] = truth.Record{}
			}
			for f, v := range r {
				union[k][f] = v
			}
		}
	}

	stepA, err := truth.Merge(base, a)
	require.NoError(t, err)
	sequential, err := truth.Merge(stepA, b)
	require.NoError(t, err)

	direct, err := truth.Merge(base, union)
	require.NoError(t, err)

	assert.Equal(t, direct.Keys(), sequential.Keys())
	assert.Equal(t, direct.Records(), sequential.Records())
	assert.Equal(t, direct.Fields(), sequential.Fields())
}

func TestMerge_NewFieldsKeepCanonicalOrder(t *testing.T) {
	merged, err := truth.Merge(nil, truth.Records{
		"2024-01-01-2024-01-14": {
			truth.FieldClosings:           "1",
			"Extra":                       "x",
			truth.FieldCaseReceipts:       "2",
			truth.FieldFearNotEstablished: "3",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		truth.FieldCaseReceipts,
		truth.FieldFearNotEstablished,
		truth.FieldClosings,
		"Extra",
	}, merged.Fields())
	assert.Equal(t, truth.DefaultKeyColumn, merged.KeyColumn())
}

func TestMerge_InvalidKey(t *testing.T) {
	original := mustLoad(t, sampleTruth)

	merged, err := truth.Merge(original, truth.Records{"From-To": {truth.FieldClosings: "1"}})
	assert.ErrorIs(t, err, truth.ErrInvalidKey)
	assert.Nil(t, merged)
	assert.Equal(t, 2, original.Len())
}

func TestStartDate(t *testing.T) {
	type testCase struct {
		name    string
		key     string
		want    time.Time
		wantErr bool
	}

	tests := []testCase{
		{name: "Padded", key: "2024-01-15-2024-01-31", want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "Unpadded", key: "2024-9-1-2024-9-14", want: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Start Only", key: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Native Format", key: "1/1/2024-1/14/2024", wantErr: true},
		{name: "Sentinel", key: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := truth.StartDate(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, truth.ErrInvalidKey)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}
