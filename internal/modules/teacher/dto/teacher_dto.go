package dto

import "github.com/google/uuid"

type StudentListQuery struct {
	Search string `form:"search" binding:"omitempty,max=100"`
}

type StudentSummary struct {
	StudentID uuid.UUID `json:"student_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	USN       *string   `json:"usn"`
}
