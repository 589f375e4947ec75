package dto

// DayAvailabilityRequest lists the periods a faculty member can teach on a day.
type DayAvailabilityRequest struct {
	Day     string `json:"day" validate:"required"`
	Periods []int  `json:"periods" validate:"required,min=1,dive,min=1"`
}

// FacultyRequest creates or replaces a faculty member.
type FacultyRequest struct {
	Name         string                   `json:"name" validate:"required,max=120"`
	SubjectCode  string                   `json:"subjectCode" validate:"required,max=32"`
	Availability []DayAvailabilityRequest `json:"availability" validate:"required,min=1,dive"`
}

// FacultyQuery narrows roster listings.
type FacultyQuery struct {
	DepartmentID string `form:"departmentId" validate:"omitempty,uuid"`
}
