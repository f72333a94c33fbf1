package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
)

// SheetFetcher loads the purchase indent spreadsheet
type SheetFetcher interface {
	FetchRows(ctx context.Context) (*models.PurchaseSheet, error)
}

// SheetClient reads a spreadsheet published as CSV
type SheetClient struct {
	url    string
	client *http.Client
}

// NewSheetClient creates a client for the published CSV at url
func NewSheetClient(url string, timeout time.Duration) *SheetClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SheetClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchRows downloads the sheet and keys every row by the header line.
// Blank rows are skipped; short rows get empty values.
func (c *SheetClient) FetchRows(ctx context.Context) (*models.PurchaseSheet, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: purchase sheet URL is not set", ErrNotConfigured)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sheet returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return parseSheetCSV(resp.Body)
}

func parseSheetCSV(r io.Reader) (*models.PurchaseSheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &models.PurchaseSheet{Headers: []string{}, Rows: []map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet header: %w", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}

	sheet := &models.PurchaseSheet{Headers: headers, Rows: []map[string]string{}}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet row: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = strings.TrimSpace(record[i])
			} else {
				row[header] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
