package dto

type OverviewResponse struct {
	TotalStudents      int64 `json:"total_students"`
	CompletedProfiles  int64 `json:"completed_profiles"`
	FirstLoginPending  int64 `json:"first_login_pending"`
	TotalProjects      int64 `json:"total_projects"`
	TotalCertificates  int64 `json:"total_certificates"`
	TotalUploadedFiles int64 `json:"total_uploaded_files"`
}
