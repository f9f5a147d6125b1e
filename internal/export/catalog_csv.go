package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"curriculum-catalog/internal/domain"
)

// Institutional reporting template. Keep header order EXACT; the downstream
// importer matches columns by position.
var catalogHeader = []string{
	"CURRICULUM_ID",
	"TITLE",
	"CODE",
	"STATUS",
	"SCHOOL_ID",
	"SCHOOL_NAME",
	"PROGRAM",
	"DEPARTMENT",
	"DEPARTMENT_ID",
	"CREATED_DATE",
	"LAST_MODIFIED",
	"EFFECTIVE_DATE",
	"DURATION",
	"ACTIVE",
	"CREATED_BY",
	"DESCRIPTION",
}

// WriteCatalogCSV writes the canonical catalog in the reporting format.
func WriteCatalogCSV(w io.Writer, curricula []domain.Curriculum) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(catalogHeader); err != nil {
		return err
	}
	for _, c := range curricula {
		if err := cw.Write(toRow(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toRow(c domain.Curriculum) []string {
	return []string{
		c.ID,
		c.Title,
		c.Code,
		string(c.Status),
		c.SchoolID,
		c.SchoolName,
		c.ProgramName,
		c.Department,
		c.DepartmentID,
		c.CreatedDate,
		c.LastModified,
		c.EffectiveDate,
		c.DurationLabel,
		strconv.FormatBool(c.Active),
		c.CreatedBy,
		c.Description,
	}
}
