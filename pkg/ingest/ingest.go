// Package ingest parses premium request usage exports into usage records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pario-ai/reqlens/pkg/models"
)

// ErrNoData is returned when the input has no header row or no data rows.
var ErrNoData = errors.New("CSV must contain a header row and at least one data row")

// HeaderError reports a header that cannot be mapped onto the record fields.
type HeaderError struct {
	Missing []string
	msg     string
}

func (e *HeaderError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return fmt.Sprintf("CSV is missing required columns: %s. Expected columns: %s",
		strings.Join(e.Missing, ", "), strings.Join(columnNames(), ", "))
}

// RowError reports a data row whose value could not be parsed. Line is
// 1-based and counts the header.
type RowError struct {
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("invalid %s at line %d: %q %s", e.Column, e.Line, e.Value, e.Reason)
}

type field int

const (
	fieldTimestamp field = iota
	fieldUser
	fieldModel
	fieldRequestsUsed
	fieldExceedsQuota
	fieldTotalMonthlyQuota
	numFields
)

var displayNames = [numFields]string{
	fieldTimestamp:         "Timestamp",
	fieldUser:              "User",
	fieldModel:             "Model",
	fieldRequestsUsed:      "Requests Used",
	fieldExceedsQuota:      "Exceeds Monthly Quota",
	fieldTotalMonthlyQuota: "Total Monthly Quota",
}

// headerAliases maps lower-cased header names, current and legacy, to fields.
var headerAliases = map[string]field{
	"date":                  fieldTimestamp,
	"timestamp":             fieldTimestamp,
	"username":              fieldUser,
	"user":                  fieldUser,
	"model":                 fieldModel,
	"quantity":              fieldRequestsUsed,
	"requests used":         fieldRequestsUsed,
	"exceeds_quota":         fieldExceedsQuota,
	"exceeds monthly quota": fieldExceedsQuota,
	"total_monthly_quota":   fieldTotalMonthlyQuota,
	"total monthly quota":   fieldTotalMonthlyQuota,
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	models.DateLayout,
}

func columnNames() []string {
	return displayNames[:]
}

// Parse reads a usage export. The first row is the header; columns may
// appear in any order and extra columns are ignored.
func Parse(r io.Reader) ([]models.UsageRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var records []models.UsageRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blank(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row, index, line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	return records, nil
}

func mapHeader(header []string) ([numFields]int, error) {
	var index [numFields]int
	for i := range index {
		index[i] = -1
	}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if f, ok := headerAliases[name]; ok && index[f] < 0 {
			index[f] = i
		}
	}

	var missing []string
	for f, i := range index {
		if i < 0 {
			missing = append(missing, displayNames[f])
		}
	}
	if len(missing) == 0 {
		return index, nil
	}
	if len(header) < int(numFields) {
		return index, &HeaderError{Missing: missing, msg: "CSV header must contain at least 6 columns"}
	}
	return index, &HeaderError{Missing: missing}
}

func parseRow(row []string, index [numFields]int, line int) (models.UsageRecord, error) {
	value := func(f field) string {
		i := index[f]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	rowErr := func(f field, v, reason string) error {
		return &RowError{Line: line, Column: displayNames[f], Value: v, Reason: reason}
	}

	rec := models.UsageRecord{
		User:              value(fieldUser),
		Model:             value(fieldModel),
		TotalMonthlyQuota: value(fieldTotalMonthlyQuota),
	}

	ts := value(fieldTimestamp)
	t, ok := parseTimestamp(ts)
	if !ok {
		return rec, rowErr(fieldTimestamp, ts, "is not a recognised timestamp")
	}
	rec.Timestamp = t

	if rec.User == "" {
		return rec, rowErr(fieldUser, rec.User, "must not be empty")
	}

	raw := value(fieldRequestsUsed)
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return rec, rowErr(fieldRequestsUsed, raw, "must be a number")
	}
	if n < 0 {
		return rec, rowErr(fieldRequestsUsed, raw, "must not be negative")
	}
	rec.RequestsUsed = n

	flag := value(fieldExceedsQuota)
	switch strings.ToLower(flag) {
	case "true":
		rec.ExceedsQuota = true
	case "false":
	default:
		return rec, rowErr(fieldExceedsQuota, flag, `must be "true" or "false"`)
	}
	return rec, nil
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
