package repository

import (
	"context"
	"errors"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository interface {
	// Save stores file in its (user, type, semester) slot and returns the
	// URL of the object it replaced, if any.
	Save(ctx context.Context, file *entity.UserFile) (string, error)
	List(ctx context.Context, userID uuid.UUID, fileType string, semester *string) ([]entity.UserFile, error)
	Delete(ctx context.Context, userID uuid.UUID, fileType string, semester *string) ([]entity.UserFile, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Save(ctx context.Context, file *entity.UserFile) (string, error) {
	var previous string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.UserFile
		err := tx.Where("user_id = ? AND file_type = ? AND semester = ?", file.UserID, file.FileType, file.Semester).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(file).Error
		}
		if err != nil {
			return err
		}

		previous = existing.FileURL
		file.ID = existing.ID
		file.UploadedAt = existing.UploadedAt
		return tx.Model(&existing).
			Select("file_name", "original_name", "file_url", "file_size", "mime_type", "updated_at").
			Updates(file).Error
	})
	if err != nil {
		return "", database.TranslateError(err)
	}
	return previous, nil
}

func (r *fileRepository) List(ctx context.Context, userID uuid.UUID, fileType string, semester *string) ([]entity.UserFile, error) {
	files := []entity.UserFile{}
	err := scope(r.db.WithContext(ctx), userID, fileType, semester).
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}

// Delete removes every matching row and returns what was removed.
func (r *fileRepository) Delete(ctx context.Context, userID uuid.UUID, fileType string, semester *string) ([]entity.UserFile, error) {
	var removed []entity.UserFile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scope(tx, userID, fileType, semester).Find(&removed).Error; err != nil {
			return err
		}
		if len(removed) == 0 {
			return gorm.ErrRecordNotFound
		}
		ids := make([]uuid.UUID, 0, len(removed))
		for _, f := range removed {
			ids = append(ids, f.ID)
		}
		return tx.Where("id IN ?", ids).Delete(&entity.UserFile{}).Error
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}
	return removed, nil
}

func scope(db *gorm.DB, userID uuid.UUID, fileType string, semester *string) *gorm.DB {
	q := db.Where("user_id = ? AND file_type = ?", userID, fileType)
	if semester != nil {
		q = q.Where("semester = ?", *semester)
	}
	return q
}
