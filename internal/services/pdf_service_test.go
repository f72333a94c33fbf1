package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMISReportPDF(t *testing.T) {
	report, err := NewMISService(sampleStore(), time.UTC, nil).GenerateReport(context.Background(), 2024, 2)
	require.NoError(t, err)

	data, err := NewPDFService().GenerateMISReportPDF(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestGenerateMISReportPDFRejectsNil(t *testing.T) {
	_, err := NewPDFService().GenerateMISReportPDF(nil)
	assert.Error(t, err)
}

func TestMISReportTables(t *testing.T) {
	report, err := NewMISService(sampleStore(), time.UTC, nil).GenerateReport(context.Background(), 2024, 2)
	require.NoError(t, err)
	report.FMS.StepStatusBreakdown = map[string]int{"10": 1, "2": 3}

	tables := misReportTables(report)
	byTitle := make(map[string]pdfTable, len(tables))
	for _, table := range tables {
		for _, row := range table.rows {
			assert.Len(t, row, len(table.headers), table.title)
		}
		assert.Len(t, table.widths, len(table.headers), table.title)
		byTitle[table.title] = table
	}

	assert.Equal(t, []string{"Tasks", "3", "1", "2"}, byTitle["Overview"].rows[0])
	assert.Equal(t, [][]string{{"Step 2", "3"}, {"Step 10", "1"}}, byTitle["FMS projects waiting at step"].rows)
	assert.Equal(t, []string{"bob", "1", "0", "0", "2"}, byTitle["FMS steps by person"].rows[1])
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "-", joinInts(nil))
	assert.Equal(t, "2, 2, 5", joinInts([]int{2, 2, 5}))
}
