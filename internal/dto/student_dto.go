package dto

// SelectProjectRequest is the project selection body. Field names follow the portal frontend.
type SelectProjectRequest struct {
	StudentID   string `json:"sp_id"`
	StudentName string `json:"sp_name"`
	ProjectID   string `json:"p_id"`
	ProjectName string `json:"p_name"`
	StartDate   string `json:"start_date"`
}

// UpdateProjectRequest changes the project assigned to a student.
type UpdateProjectRequest struct {
	ProjectID   string `json:"p_id"`
	ProjectName string `json:"p_name"`
}
