package dto

// SubjectQuery narrows subject listings.
type SubjectQuery struct {
	DepartmentID string `form:"departmentId" validate:"omitempty,uuid"`
}
