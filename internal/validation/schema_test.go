package validation

import (
	"testing"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReport() *models.MISReport {
	byStatus := models.NewHistogram(models.KnownTaskStatuses...)
	byStatus.Add(models.TaskStatusPending)
	return &models.MISReport{
		Period: models.ReportPeriod{
			Year: 2024, Month: 2,
			StartDate: "2024-02-01T00:00:00.000Z",
			EndDate:   "2024-02-29T23:59:59.999Z",
		},
		Tasks: models.TaskSummary{
			Total: 1, Cyclic: 1,
			ByStatus: byStatus,
			ByType:   models.NewHistogram(models.KnownTaskTypes...),
			ByPerson: []*models.TaskPersonStats{{
				PersonIdentity: models.PersonIdentity{UserID: "65f0c0ffee0000000000abcd", Username: "alice"},
				Total:          1, Cyclic: 1, Pending: 1,
			}},
		},
		FMS: models.FMSSummary{
			ByPerson:            []*models.FMSPersonStats{},
			StepStatusBreakdown: map[string]int{},
		},
		Checklists:  models.ChecklistSummary{ByPerson: []*models.ChecklistPersonStats{}},
		HelpTickets: models.HelpTicketSummary{ByPerson: []*models.HelpTicketPersonStats{}},
		Users:       []models.UserEntry{},
	}
}

func TestValidateMISReport(t *testing.T) {
	require.NoError(t, ValidateMISReport(validReport()))
}

func TestValidateMISReportRejectsBadPeriod(t *testing.T) {
	report := validReport()
	report.Period.Month = 13

	err := ValidateMISReport(report)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, err.Error(), "month")
}

func TestValidateMISReportRejectsNullPersonList(t *testing.T) {
	report := validReport()
	report.Checklists.ByPerson = nil

	assert.ErrorIs(t, ValidateMISReport(report), ErrInvalidDocument)
}

func TestValidateMISReportRejectsMissingStatusBucket(t *testing.T) {
	report := validReport()
	report.Tasks.ByStatus = models.NewHistogram(models.TaskStatusPending)

	assert.ErrorIs(t, ValidateMISReport(report), ErrInvalidDocument)
}

func TestLoadSchemaRejectsGarbage(t *testing.T) {
	_, err := LoadSchema([]byte(`{"type": 12}`))
	assert.Error(t, err)
}
