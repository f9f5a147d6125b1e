package domain

// Status is the canonical curriculum status inside this service.
// Raw backend values are mapped into one of these four by the catalog
// normalizer; anything unknown becomes StatusDraft.
type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
	StatusDraft    Status = "draft"
)

// ProgramID is one of the three fixed program levels between school and
// department in the hierarchy.
type ProgramID string

const (
	ProgramPhD      ProgramID = "phd"
	ProgramMasters  ProgramID = "masters"
	ProgramBachelor ProgramID = "bachelor"
)

// Programs lists the buckets in display order.
var Programs = []ProgramID{ProgramPhD, ProgramMasters, ProgramBachelor}

// ProgramName returns the display label for a program bucket.
func ProgramName(p ProgramID) string {
	switch p {
	case ProgramPhD:
		return "PhD"
	case ProgramMasters:
		return "Masters"
	default:
		return "Bachelor"
	}
}

// Curriculum is the canonical representation of a curriculum record.
// The catalog normalizer maps raw backend records into this model; everything
// downstream (reconciler, hierarchy, query pipeline, exports) works from it.
// Records are immutable: a fetch cycle replaces them wholesale.
type Curriculum struct {
	ID    string
	Title string
	Code  string

	Status Status

	Department   string // display name; may be empty
	DepartmentID string // backend id when present

	SchoolID   string // as embedded by the source, not the registry id
	SchoolName string

	ProgramID   ProgramID
	ProgramName string

	// ISO yyyy-mm-dd; empty string means absent/unparseable.
	CreatedDate   string
	LastModified  string
	EffectiveDate string

	DurationLabel string
	Active        bool
	CreatedBy     string
	Description   string
}
