package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cfi/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Report.MatchThreshold)
	assert.Equal(t, "utf-8", cfg.Report.PrimaryEncoding)
	assert.Equal(t, "windows-1252", cfg.Report.FallbackEncoding)
	assert.Equal(t, "cfi_truth.csv", cfg.Truth.Path)
}

func TestLoad_MatchThreshold(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{value: "85", want: 85},
		{value: "1", want: 1},
		{value: "0", wantErr: true},
		{value: "100", wantErr: true},
		{value: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("REPORT_MATCH_THRESHOLD", tt.value)

			cfg, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Report.MatchThreshold)
		})
	}
}

func TestValidate_RejectsNegativeSkipRows(t *testing.T) {
	t.Setenv("REPORT_SKIP_ROWS", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}
