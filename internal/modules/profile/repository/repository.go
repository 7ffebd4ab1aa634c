package repository

import (
	"context"
	"errors"
	"time"

	"anoa.com/studentprofile/internal/entity"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileFields are the scalar columns of student_profiles.
type ProfileFields struct {
	FirstName         string
	LastName          string
	USN               *string
	DOB               *time.Time
	Phone             *string
	ProfilePictureURL *string
}

// ParentPatch holds parent columns; nil means "leave as is".
type ParentPatch struct {
	FatherName *string
	MotherName *string
	Contact    *string
	Email      *string
}

func (p *ParentPatch) IsEmpty() bool {
	return p == nil || (p.FatherName == nil && p.MotherName == nil && p.Contact == nil && p.Email == nil)
}

// ProfileChanges is one full-form submission. Every facet slice replaces
// the stored rows, including when it is empty.
type ProfileChanges struct {
	Fields          ProfileFields
	Parent          *ParentPatch
	Addresses       []entity.Address
	AcademicRecords []entity.AcademicRecord
	Siblings        []entity.SiblingInfo
	Hobbies         []entity.Hobby
}

// ProfilePatch is a partial update. Nil scalars and nil facet pointers are
// left untouched.
type ProfilePatch struct {
	FirstName         *string
	LastName          *string
	USN               *string
	DOB               *time.Time
	Phone             *string
	ProfilePictureURL *string

	Parent          *ParentPatch
	Addresses       *[]entity.Address
	AcademicRecords *[]entity.AcademicRecord
	Siblings        *[]entity.SiblingInfo
	Hobbies         *[]entity.Hobby
}

type ProfileRepository interface {
	FindStudent(ctx context.Context, studentID uuid.UUID) (*entity.Student, error)
	FindByStudentID(ctx context.Context, studentID uuid.UUID) (*entity.StudentProfile, error)
	Upsert(ctx context.Context, studentID uuid.UUID, changes ProfileChanges) (*entity.StudentProfile, bool, error)
	Patch(ctx context.Context, studentID uuid.UUID, patch ProfilePatch) (*entity.StudentProfile, error)
	SetProfilePicture(ctx context.Context, studentID uuid.UUID, url *string) error

	FindParentInfo(ctx context.Context, profileID uuid.UUID) (*entity.ParentInfo, error)
	ListAddresses(ctx context.Context, profileID uuid.UUID) ([]entity.Address, error)
	ListAcademicRecords(ctx context.Context, profileID uuid.UUID) ([]entity.AcademicRecord, error)
	ListSiblings(ctx context.Context, profileID uuid.UUID) ([]entity.SiblingInfo, error)
	ListHobbies(ctx context.Context, profileID uuid.UUID) ([]entity.Hobby, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindStudent(ctx context.Context, studentID uuid.UUID) (*entity.Student, error) {
	var student entity.Student
	if err := r.db.WithContext(ctx).First(&student, "id = ?", studentID).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &student, nil
}

// FindByStudentID returns the most recently created profile of the student.
func (r *profileRepository) FindByStudentID(ctx context.Context, studentID uuid.UUID) (*entity.StudentProfile, error) {
	return findProfile(r.db.WithContext(ctx), studentID)
}

// Upsert writes the whole submission in one transaction. It reports whether
// the profile row was created.
func (r *profileRepository) Upsert(ctx context.Context, studentID uuid.UUID, changes ProfileChanges) (*entity.StudentProfile, bool, error) {
	var (
		profile *entity.StudentProfile
		created bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findProfile(tx, studentID)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			profile = &entity.StudentProfile{StudentID: studentID}
			applyFields(profile, changes.Fields)
			profile.ProfileCompleted = true
			if err := tx.Create(profile).Error; err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			profile = existing
			applyFields(profile, changes.Fields)
			profile.ProfileCompleted = true
			if err := tx.Model(profile).
				Select("first_name", "last_name", "usn", "dob", "phone", "profile_picture_url", "profile_completed", "updated_at").
				Updates(profile).Error; err != nil {
				return err
			}
		}

		if !changes.Parent.IsEmpty() {
			if err := upsertParent(tx, profile.ID, changes.Parent); err != nil {
				return err
			}
		}
		if err := replaceAddresses(tx, profile.ID, changes.Addresses); err != nil {
			return err
		}
		if err := replaceAcademicRecords(tx, profile.ID, changes.AcademicRecords); err != nil {
			return err
		}
		if err := replaceSiblings(tx, profile.ID, changes.Siblings); err != nil {
			return err
		}
		if err := replaceHobbies(tx, profile.ID, changes.Hobbies); err != nil {
			return err
		}

		return clearFirstLogin(tx, studentID)
	})
	if err != nil {
		return nil, false, database.TranslateError(err)
	}

	return profile, created, nil
}

func (r *profileRepository) Patch(ctx context.Context, studentID uuid.UUID, patch ProfilePatch) (*entity.StudentProfile, error) {
	var profile *entity.StudentProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		profile, err = findProfile(tx, studentID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"profile_completed": true}
		if patch.FirstName != nil {
			updates["first_name"] = *patch.FirstName
		}
		if patch.LastName != nil {
			updates["last_name"] = *patch.LastName
		}
		if patch.USN != nil {
			updates["usn"] = nullable(*patch.USN)
		}
		if patch.DOB != nil {
			updates["dob"] = *patch.DOB
		}
		if patch.Phone != nil {
			updates["phone"] = nullable(*patch.Phone)
		}
		if patch.ProfilePictureURL != nil {
			updates["profile_picture_url"] = nullable(*patch.ProfilePictureURL)
		}
		if err := tx.Model(profile).Updates(updates).Error; err != nil {
			return err
		}

		if !patch.Parent.IsEmpty() {
			if err := upsertParent(tx, profile.ID, patch.Parent); err != nil {
				return err
			}
		}
		if patch.Addresses != nil {
			if err := replaceAddresses(tx, profile.ID, *patch.Addresses); err != nil {
				return err
			}
		}
		if patch.AcademicRecords != nil {
			if err := replaceAcademicRecords(tx, profile.ID, *patch.AcademicRecords); err != nil {
				return err
			}
		}
		if patch.Siblings != nil {
			if err := replaceSiblings(tx, profile.ID, *patch.Siblings); err != nil {
				return err
			}
		}
		if patch.Hobbies != nil {
			if err := replaceHobbies(tx, profile.ID, *patch.Hobbies); err != nil {
				return err
			}
		}

		if err := clearFirstLogin(tx, studentID); err != nil {
			return err
		}

		profile, err = findProfile(tx, studentID)
		return err
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}

	return profile, nil
}

func (r *profileRepository) SetProfilePicture(ctx context.Context, studentID uuid.UUID, url *string) error {
	return r.db.WithContext(ctx).
		Model(&entity.StudentProfile{}).
		Where("student_id = ?", studentID).
		Update("profile_picture_url", url).Error
}

func (r *profileRepository) FindParentInfo(ctx context.Context, profileID uuid.UUID) (*entity.ParentInfo, error) {
	var parents []entity.ParentInfo
	if err := r.db.WithContext(ctx).
		Where("student_profile_id = ?", profileID).
		Limit(1).
		Find(&parents).Error; err != nil {
		return nil, err
	}
	if len(parents) == 0 {
		return nil, nil
	}
	return &parents[0], nil
}

func (r *profileRepository) ListAddresses(ctx context.Context, profileID uuid.UUID) ([]entity.Address, error) {
	addresses := []entity.Address{}
	err := r.db.WithContext(ctx).
		Where("student_profile_id = ?", profileID).
		Order("address_type, id").
		Find(&addresses).Error
	return addresses, err
}

func (r *profileRepository) ListAcademicRecords(ctx context.Context, profileID uuid.UUID) ([]entity.AcademicRecord, error) {
	records := []entity.AcademicRecord{}
	err := r.db.WithContext(ctx).
		Where("student_profile_id = ?", profileID).
		Order("year DESC, id").
		Find(&records).Error
	return records, err
}

func (r *profileRepository) ListSiblings(ctx context.Context, profileID uuid.UUID) ([]entity.SiblingInfo, error) {
	siblings := []entity.SiblingInfo{}
	err := r.db.WithContext(ctx).
		Where("student_profile_id = ?", profileID).
		Order("id").
		Find(&siblings).Error
	return siblings, err
}

func (r *profileRepository) ListHobbies(ctx context.Context, profileID uuid.UUID) ([]entity.Hobby, error) {
	hobbies := []entity.Hobby{}
	err := r.db.WithContext(ctx).
		Where("student_profile_id = ?", profileID).
		Order("id").
		Find(&hobbies).Error
	return hobbies, err
}

func findProfile(db *gorm.DB, studentID uuid.UUID) (*entity.StudentProfile, error) {
	var profile entity.StudentProfile
	if err := db.
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		First(&profile).Error; err != nil {
		return nil, database.TranslateError(err)
	}
	return &profile, nil
}

func applyFields(p *entity.StudentProfile, f ProfileFields) {
	p.FirstName = f.FirstName
	p.LastName = f.LastName
	p.USN = f.USN
	p.DOB = f.DOB
	p.Phone = f.Phone
	p.ProfilePictureURL = f.ProfilePictureURL
}

// upsertParent inserts the parent row or updates only the supplied columns.
func upsertParent(tx *gorm.DB, profileID uuid.UUID, p *ParentPatch) error {
	var existing entity.ParentInfo
	err := tx.Where("student_profile_id = ?", profileID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&entity.ParentInfo{
			StudentProfileID: profileID,
			FatherName:       p.FatherName,
			MotherName:       p.MotherName,
			Contact:          p.Contact,
			Email:            p.Email,
		}).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if p.FatherName != nil {
		updates["father_name"] = *p.FatherName
	}
	if p.MotherName != nil {
		updates["mother_name"] = *p.MotherName
	}
	if p.Contact != nil {
		updates["contact"] = *p.Contact
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	return tx.Model(&existing).Updates(updates).Error
}

func replaceAddresses(tx *gorm.DB, profileID uuid.UUID, rows []entity.Address) error {
	if err := tx.Where("student_profile_id = ?", profileID).Delete(&entity.Address{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].StudentProfileID = profileID
	}
	return tx.Create(&rows).Error
}

func replaceAcademicRecords(tx *gorm.DB, profileID uuid.UUID, rows []entity.AcademicRecord) error {
	if err := tx.Where("student_profile_id = ?", profileID).Delete(&entity.AcademicRecord{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].StudentProfileID = profileID
	}
	return tx.Create(&rows).Error
}

func replaceSiblings(tx *gorm.DB, profileID uuid.UUID, rows []entity.SiblingInfo) error {
	if err := tx.Where("student_profile_id = ?", profileID).Delete(&entity.SiblingInfo{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].StudentProfileID = profileID
	}
	return tx.Create(&rows).Error
}

func replaceHobbies(tx *gorm.DB, profileID uuid.UUID, rows []entity.Hobby) error {
	if err := tx.Where("student_profile_id = ?", profileID).Delete(&entity.Hobby{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].StudentProfileID = profileID
	}
	return tx.Create(&rows).Error
}

// nullable stores an empty string as NULL so unique columns stay free.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func clearFirstLogin(tx *gorm.DB, studentID uuid.UUID) error {
	res := tx.Model(&entity.Student{}).
		Where("id = ?", studentID).
		Update("is_first_login", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("student not found")
	}
	return nil
}
