package model

// Statistics aggregates the record set for the dashboard and the assistant.
// Distribution maps are keyed by display labels; ByYear uses the decimal
// year ("1".."4").
type Statistics struct {
	Total             int                `json:"total"`
	DepartmentCount   int                `json:"department_count"`
	AverageGPA        float64            `json:"average_gpa"`
	AverageAttendance float64            `json:"average_attendance"`
	ByDepartment      map[string]int     `json:"by_department"`
	ByYear            map[string]int     `json:"by_year"`
	ByGender          map[string]int     `json:"by_gender"`
	GPABuckets        map[string]int     `json:"gpa_buckets"`
	AttendanceBuckets map[string]int     `json:"attendance_buckets"`
	DepartmentAvgGPA  map[string]float64 `json:"department_avg_gpa"`
}
