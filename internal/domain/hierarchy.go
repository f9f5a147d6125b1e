package domain

// StatusStats tallies curricula by canonical status. For every program bucket
// the four counters sum to the bucket's Count.
type StatusStats struct {
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Draft    int `json:"draft"`
	Rejected int `json:"rejected"`
}

// Total returns the sum of all four counters.
func (s StatusStats) Total() int {
	return s.Approved + s.Pending + s.Draft + s.Rejected
}

// DepartmentGroup groups a program bucket's curricula under one department
// display name. Curricula without a department land under "General".
type DepartmentGroup struct {
	Name      string
	Curricula []Curriculum
}

// ProgramBucket is the mid-level hierarchy node for one program level of one
// school. Buckets with zero curricula are never emitted.
type ProgramBucket struct {
	ID          ProgramID
	Name        string
	Count       int
	Stats       StatusStats
	Departments []DepartmentGroup
}

// SchoolNode is the top-level hierarchy node: one merged school plus its
// non-empty program buckets.
type SchoolNode struct {
	School   School
	Programs []ProgramBucket
}
