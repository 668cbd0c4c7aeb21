package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cfi/internal/config"
	"github.com/MrJamesThe3rd/cfi/internal/importer"
)

func testConfig() *config.Config {
	var cfg config.Config
	cfg.Report.TableTitle = "All Credible Fear Cases"
	cfg.Report.MatchThreshold = 80
	cfg.Report.PrimaryEncoding = "utf-8"
	cfg.Report.FallbackEncoding = "windows-1252"

	return &cfg
}

func TestService_Import(t *testing.T) {
	src := `All Credible Fear Cases,,
FROM,1/1/2024,
TO,1/15/2024,
Case Receipts,10,
All Decisions,9,
Fear Established_Persecution (Y),4,
Fear Established_Torture (Y),1,
Fear Not Established (N),3,
Administratively Closed,2,
`

	tests := []struct {
		name    string
		report  importer.Report
		wantErr bool
	}{
		{name: "cfi", report: importer.ReportCFI},
		{name: "default report", report: ""},
		{name: "unknown report", report: "rfi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := importer.NewService(testConfig())

			got, err := svc.Import(tt.report, strings.NewReader(src))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "5", got.Records["2024-01-01-2024-01-15"]["Fear Established (Y)"])
		})
	}
}
