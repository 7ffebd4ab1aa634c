package dto

import (
	"time"

	"anoa.com/studentprofile/internal/entity"
	"github.com/google/uuid"
)

const (
	KindProfile     = "profile"
	KindCertificate = "certificate"
)

type FileTypeParam struct {
	Type string `uri:"type" binding:"required,oneof=profile certificate"`
}

// FileType maps the route segment onto the stored file type.
func (p FileTypeParam) FileType() string {
	if p.Type == KindCertificate {
		return entity.FileTypeMoocCertificate
	}
	return entity.FileTypeProfilePicture
}

type SemesterQuery struct {
	Semester *string `form:"semester" binding:"omitempty,max=20"`
}

type FileResponse struct {
	ID           uuid.UUID `json:"id"`
	FileType     string    `json:"file_type"`
	Semester     string    `json:"semester,omitempty"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	FileURL      string    `json:"file_url"`
	FileSize     int64     `json:"file_size"`
	MimeType     string    `json:"mime_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UploadFileResponse struct {
	Message string       `json:"message"`
	File    FileResponse `json:"file"`
}

func NewFileResponse(f *entity.UserFile) FileResponse {
	return FileResponse{
		ID:           f.ID,
		FileType:     f.FileType,
		Semester:     f.Semester,
		FileName:     f.FileName,
		OriginalName: f.OriginalName,
		FileURL:      f.FileURL,
		FileSize:     f.FileSize,
		MimeType:     f.MimeType,
		UploadedAt:   f.UploadedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

func NewFileResponses(files []entity.UserFile) []FileResponse {
	out := make([]FileResponse, 0, len(files))
	for i := range files {
		out = append(out, NewFileResponse(&files[i]))
	}
	return out
}
