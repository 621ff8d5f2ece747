package school

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

const marksReportFilename = "marks_report.csv"

var marksReportHeader = []string{"Student Name", "Course", "Marks"}

// MarksReport is a flat export of all marks joined with the referenced
// student names and course titles, in mark insertion order.
type MarksReport struct {
	rows []MarkRow
}

// MarksReport materializes the full mark set for export.
func (svc *Service) MarksReport() (*MarksReport, error) {
	rows, err := svc.repo.QueryMarkRows()
	if err != nil {
		return nil, errors.Wrap(err, "querying mark rows")
	}
	return &MarksReport{rows: rows}, nil
}

// Filename is the suggested download filename.
func (r *MarksReport) Filename() string {
	return marksReportFilename
}

func (r *MarksReport) Len() int {
	return len(r.rows)
}

// Rows exposes the joined rows for rendering.
func (r *MarksReport) Rows() []MarkRow {
	return r.rows
}

// WriteCSV writes the report as CSV: a fixed header row followed by one
// row per mark.
func (r *MarksReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(marksReportHeader); err != nil {
		return errors.Wrap(err, "writing report header")
	}
	for _, row := range r.rows {
		record := []string{row.StudentName, row.CourseTitle, strconv.Itoa(row.Value)}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing report row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing report")
}
