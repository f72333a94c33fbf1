package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
	"github.com/deep4kk/MERN-STACK-FMS/internal/utils"
)

// Period is an inclusive reporting window covering one calendar month
type Period struct {
	Year  int
	Month int
	Start time.Time
	End   time.Time
}

// ParsePeriodParams parses raw year and month query values
func ParsePeriodParams(yearStr, monthStr string) (year, month int, err error) {
	yearStr = strings.TrimSpace(yearStr)
	monthStr = strings.TrimSpace(monthStr)
	if yearStr == "" || monthStr == "" {
		return 0, 0, fmt.Errorf("%w: year and month are required", ErrInvalidInput)
	}
	year, err = strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year must be an integer, got %q", ErrInvalidInput, yearStr)
	}
	month, err = strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month must be an integer, got %q", ErrInvalidInput, monthStr)
	}
	return year, month, nil
}

// ResolvePeriod returns the first and last instant of month in loc. The end
// is 23:59:59.999 on day 0 of the following month, i.e. the month's last day.
func ResolvePeriod(year, month int, loc *time.Location) (Period, error) {
	if year <= 0 {
		return Period{}, fmt.Errorf("%w: year must be positive, got %d", ErrInvalidInput, year)
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidInput, month)
	}
	if loc == nil {
		loc = time.Local
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)

	return Period{Year: year, Month: month, Start: start, End: end}, nil
}

// ReportPeriod renders the period for the report document
func (p Period) ReportPeriod() models.ReportPeriod {
	return models.ReportPeriod{
		Year:      p.Year,
		Month:     p.Month,
		StartDate: utils.FormatISO(p.Start),
		EndDate:   utils.FormatISO(p.End),
	}
}
