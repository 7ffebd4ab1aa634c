package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterTeacherRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,max=72"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

type StudentAccount struct {
	StudentID    uuid.UUID `json:"student_id"`
	Email        string    `json:"email"`
	IsFirstLogin bool      `json:"is_first_login"`
	Role         string    `json:"role"`
}

type RegisterResponse struct {
	Token   string         `json:"token"`
	Student StudentAccount `json:"student"`
}

// UserAccount is the login view shared by both roles. IsFirstLogin is only
// present for students.
type UserAccount struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsFirstLogin *bool     `json:"is_first_login,omitempty"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserAccount `json:"user"`
}

type TeacherResponse struct {
	Token   string      `json:"token"`
	Teacher UserAccount `json:"teacher"`
}
