package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"anoa.com/studentprofile/internal/entity"
	moocRepo "anoa.com/studentprofile/internal/modules/mooc/repository"
	notifDto "anoa.com/studentprofile/internal/modules/notification/dto"
	"anoa.com/studentprofile/internal/modules/profile/dto"
	"anoa.com/studentprofile/internal/modules/profile/repository"
	projectRepo "anoa.com/studentprofile/internal/modules/project/repository"
	"anoa.com/studentprofile/internal/testutil"
	"anoa.com/studentprofile/pkg/apperror"
	"anoa.com/studentprofile/pkg/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingFeed struct {
	mu     sync.Mutex
	events []notifDto.FeedEvent
}

func (f *recordingFeed) Publish(_ context.Context, event notifDto.FeedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	db      *gorm.DB
	svc     ProfileService
	feed    *recordingFeed
	student *entity.Student
	claims  *token.Claims
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	feed := &recordingFeed{}
	svc := NewProfileService(
		repository.NewProfileRepository(db),
		projectRepo.NewProjectRepository(db),
		moocRepo.NewMoocRepository(db),
		nil,
		feed,
		zerolog.Nop(),
	)
	student := testutil.CreateStudent(t, db, "asha@example.com")

	return &fixture{
		db:      db,
		svc:     svc,
		feed:    feed,
		student: student,
		claims:  claimsFor(student.ID, token.RoleStudent),
	}
}

func claimsFor(id uuid.UUID, role string) *token.Claims {
	return &token.Claims{
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()},
	}
}

func fullRequest(studentID uuid.UUID) dto.UpsertProfileRequest {
	return dto.UpsertProfileRequest{
		StudentID:     studentID.String(),
		FirstName:     "Asha",
		LastName:      "Rao",
		USN:           testutil.Ptr("1AB21CS001"),
		DOB:           testutil.Ptr("2003-04-05"),
		Phone:         testutil.Ptr("9876543210"),
		FatherName:    testutil.Ptr("Ravi Rao"),
		MotherName:    testutil.Ptr("Lata Rao"),
		ParentContact: testutil.Ptr("9123456780"),
		ParentEmail:   testutil.Ptr("ravi@example.com"),
		PermanentAddress: &dto.AddressInput{
			Street: "12 MG Road", City: "Bengaluru", State: "KA", ZipCode: "560001", Country: "India",
		},
		TemporaryAddress: &dto.AddressInput{
			Street: "4 Hostel Lane", City: "Mysuru", State: "KA", ZipCode: "570001", Country: "India",
		},
		AcademicRecords: []dto.AcademicRecordInput{
			{Degree: "SSLC", Institution: "City School", Year: 2019, Grade: "A"},
			{Degree: "PUC", Institution: "City College", Year: 2021, Grade: "A+"},
		},
		Siblings: []dto.SiblingInput{{SiblingName: "Kiran", Relationship: "brother"}},
		Hobbies:  []dto.HobbyInput{{HobbyName: "chess"}, {HobbyName: "music"}},
	}
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestUpsertProfileCreatesThenUpdates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := fullRequest(f.student.ID)

	first, err := f.svc.UpsertProfile(ctx, f.claims, req)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "Profile created successfully", first.Message)

	second, err := f.svc.UpsertProfile(ctx, f.claims, req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, "Profile updated successfully", second.Message)
	assert.Equal(t, first.ProfileID, second.ProfileID)

	assert.EqualValues(t, 1, count(t, f.db, &entity.StudentProfile{}))
	assert.EqualValues(t, 1, count(t, f.db, &entity.ParentInfo{}))
	assert.EqualValues(t, 2, count(t, f.db, &entity.Address{}))
	assert.EqualValues(t, 2, count(t, f.db, &entity.AcademicRecord{}))
	assert.EqualValues(t, 1, count(t, f.db, &entity.SiblingInfo{}))
	assert.EqualValues(t, 2, count(t, f.db, &entity.Hobby{}))

	var student entity.Student
	require.NoError(t, f.db.First(&student, "id = ?", f.student.ID).Error)
	assert.False(t, student.IsFirstLogin)

	require.Len(t, f.feed.events, 2)
	assert.Equal(t, notifDto.EventProfileSubmitted, f.feed.events[0].Type)
	assert.True(t, f.feed.events[0].Created)
	assert.False(t, f.feed.events[1].Created)
}

func TestUpsertProfileTwiceYieldsSameDocument(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := fullRequest(f.student.ID)

	_, err := f.svc.UpsertProfile(ctx, f.claims, req)
	require.NoError(t, err)
	before, err := f.svc.GetProfile(ctx, f.claims, f.student.ID)
	require.NoError(t, err)

	_, err = f.svc.UpsertProfile(ctx, f.claims, req)
	require.NoError(t, err)
	after, err := f.svc.GetProfile(ctx, f.claims, f.student.ID)
	require.NoError(t, err)

	require.NotNil(t, before.ProfileDetails)
	require.NotNil(t, after.ProfileDetails)

	// replaced lists get fresh row ids, so compare them without order
	assert.ElementsMatch(t, before.Addresses, after.Addresses)
	assert.ElementsMatch(t, before.AcademicRecords, after.AcademicRecords)
	assert.ElementsMatch(t, before.Siblings, after.Siblings)
	assert.ElementsMatch(t, before.Hobbies, after.Hobbies)

	strip := func(doc *dto.ProfileResponse) dto.ProfileResponse {
		details := *doc.ProfileDetails
		details.Addresses, details.AcademicRecords, details.Siblings, details.Hobbies = nil, nil, nil, nil
		out := *doc
		out.ProfileDetails = &details
		return out
	}
	assert.Equal(t, strip(before), strip(after))
}

func TestUpsertProfileRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertProfile(ctx, f.claims, fullRequest(f.student.ID))
	require.NoError(t, err)

	doc, err := f.svc.GetProfile(ctx, f.claims, f.student.ID)
	require.NoError(t, err)
	require.NotNil(t, doc.ProfileDetails)

	assert.Equal(t, "asha@example.com", doc.Email)
	assert.False(t, doc.IsFirstLogin)
	assert.True(t, doc.ProfileCompleted)
	assert.Equal(t, "Asha", doc.FirstName)
	assert.Equal(t, "1AB21CS001", *doc.USN)
	assert.Equal(t, "2003-04-05", *doc.DOB)
	require.NotNil(t, doc.ParentInfo)
	assert.Equal(t, "ravi@example.com", *doc.ParentInfo.Email)

	assert.ElementsMatch(t, []dto.AddressResponse{
		{AddressType: "permanent", Street: "12 MG Road", City: "Bengaluru", State: "KA", ZipCode: "560001", Country: "India"},
		{AddressType: "temporary", Street: "4 Hostel Lane", City: "Mysuru", State: "KA", ZipCode: "570001", Country: "India"},
	}, doc.Addresses)
	require.Len(t, doc.AcademicRecords, 2)
	assert.Equal(t, 2021, doc.AcademicRecords[0].Year, "newest record first")
	assert.ElementsMatch(t, []dto.HobbyResponse{{HobbyName: "chess"}, {HobbyName: "music"}}, doc.Hobbies)
	assert.Equal(t, []dto.SiblingResponse{{SiblingName: "Kiran", Relationship: "brother"}}, doc.Siblings)
	assert.NotNil(t, doc.Projects)
	assert.Empty(t, doc.Projects)
	assert.NotNil(t, doc.MoocCertificates)
}

func TestUpsertProfileSkipsIncompleteEntries(t *testing.T) {
	f := setup(t)
	req := fullRequest(f.student.ID)
	req.AcademicRecords = []dto.AcademicRecordInput{
		{Degree: "BE", Institution: "VTU", Year: 2025, Grade: "8.9"},
		{Degree: "", Institution: "VTU", Year: 2024, Grade: "A"},
		{Degree: "Diploma", Institution: "Poly", Grade: "B"},
	}
	req.Siblings = []dto.SiblingInput{{SiblingName: "Kiran"}, {SiblingName: "Meera", Relationship: "sister"}}
	req.Hobbies = []dto.HobbyInput{{HobbyName: "  "}, {HobbyName: "cricket"}}

	_, err := f.svc.UpsertProfile(context.Background(), f.claims, req)
	require.NoError(t, err)

	var records []entity.AcademicRecord
	require.NoError(t, f.db.Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, "BE", records[0].Degree)

	var siblings []entity.SiblingInfo
	require.NoError(t, f.db.Find(&siblings).Error)
	require.Len(t, siblings, 1)
	assert.Equal(t, "Meera", siblings[0].SiblingName)

	var hobbies []entity.Hobby
	require.NoError(t, f.db.Find(&hobbies).Error)
	require.Len(t, hobbies, 1)
	assert.Equal(t, "cricket", hobbies[0].HobbyName)
}

func TestUpsertProfileOwnershipMismatch(t *testing.T) {
	f := setup(t)
	other := testutil.CreateStudent(t, f.db, "other@example.com")

	cases := map[string]*token.Claims{
		"different student": claimsFor(other.ID, token.RoleStudent),
		"teacher":           claimsFor(f.student.ID, token.RoleTeacher),
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.UpsertProfile(context.Background(), claims, fullRequest(f.student.ID))
			require.ErrorIs(t, err, apperror.ErrOwnershipMismatch)
			assert.Equal(t, http.StatusForbidden, apperror.MapErrorToStatus(err))
		})
	}

	assert.Zero(t, count(t, f.db, &entity.StudentProfile{}))
	assert.Zero(t, count(t, f.db, &entity.Address{}))
	assert.Zero(t, count(t, f.db, &entity.Hobby{}))
	assert.Empty(t, f.feed.events)
}

func TestUpsertProfileValidatesBeforeWriting(t *testing.T) {
	f := setup(t)

	req := fullRequest(f.student.ID)
	req.DOB = testutil.Ptr("05/04/2003")
	_, err := f.svc.UpsertProfile(context.Background(), f.claims, req)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	req = fullRequest(f.student.ID)
	req.ParentEmail = testutil.Ptr("not-an-email")
	_, err = f.svc.UpsertProfile(context.Background(), f.claims, req)
	assert.Equal(t, http.StatusBadRequest, apperror.MapErrorToStatus(err))

	assert.Zero(t, count(t, f.db, &entity.StudentProfile{}))
}

func TestUpsertProfileRollsBackWhenAddressesFail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertProfile(ctx, f.claims, fullRequest(f.student.ID))
	require.NoError(t, err)

	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_addresses", func(tx *gorm.DB) {
		if tx.Statement.Table == "addresses" {
			_ = tx.AddError(errors.New("address insert failed"))
		}
	}))

	req := fullRequest(f.student.ID)
	req.FirstName = "Changed"
	req.Hobbies = []dto.HobbyInput{{HobbyName: "painting"}}
	_, err = f.svc.UpsertProfile(ctx, f.claims, req)
	require.Error(t, err)

	var profile entity.StudentProfile
	require.NoError(t, f.db.First(&profile, "student_id = ?", f.student.ID).Error)
	assert.Equal(t, "Asha", profile.FirstName)
	assert.EqualValues(t, 2, count(t, f.db, &entity.Address{}))
	assert.EqualValues(t, 2, count(t, f.db, &entity.Hobby{}))
}

func TestUpsertProfileReplacesAddresses(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertProfile(ctx, f.claims, fullRequest(f.student.ID))
	require.NoError(t, err)

	req := fullRequest(f.student.ID)
	req.TemporaryAddress = nil
	_, err = f.svc.UpsertProfile(ctx, f.claims, req)
	require.NoError(t, err)

	var addresses []entity.Address
	require.NoError(t, f.db.Find(&addresses).Error)
	require.Len(t, addresses, 1)
	assert.Equal(t, entity.AddressPermanent, addresses[0].AddressType)
}

func TestUpsertProfilePutSemanticsClearsScalars(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertProfile(ctx, f.claims, fullRequest(f.student.ID))
	require.NoError(t, err)

	req := fullRequest(f.student.ID)
	req.Phone = nil
	req.USN = nil
	_, err = f.svc.UpsertProfile(ctx, f.claims, req)
	require.NoError(t, err)

	var profile entity.StudentProfile
	require.NoError(t, f.db.First(&profile, "student_id = ?", f.student.ID).Error)
	assert.Nil(t, profile.Phone)
	assert.Nil(t, profile.USN)
}

func TestUpsertProfileDuplicateUSNConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertProfile(ctx, f.claims, fullRequest(f.student.ID))
	require.NoError(t, err)

	other := testutil.CreateStudent(t, f.db, "other@example.com")
	_, err = f.svc.UpsertProfile(ctx, claimsFor(other.ID, token.RoleStudent), fullRequest(other.ID))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
	assert.Contains(t, err.Error(), "usn")

	var n int64
	require.NoError(t, f.db.Model(&entity.StudentProfile{}).Where("student_id = ?", other.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGetProfileAccess(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	other := testutil.CreateStudent(t, f.db, "other@example.com")
	teacher := testutil.CreateTeacher(t, f.db, "teach@example.com")

	_, err := f.svc.GetProfile(ctx, claimsFor(other.ID, token.RoleStudent), f.student.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	doc, err := f.svc.GetProfile(ctx, claimsFor(teacher.ID, token.RoleTeacher), f.student.ID)
	require.NoError(t, err)
	assert.Nil(t, doc.ProfileDetails, "no profile yet")
	assert.True(t, doc.IsFirstLogin)
	assert.False(t, doc.ProfileCompleted)

	_, err = f.svc.GetProfile(ctx, claimsFor(teacher.ID, token.RoleTeacher), uuid.New())
	assert.Equal(t, http.StatusNotFound, apperror.MapErrorToStatus(err))
}

func TestPatchProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.PatchProfile(ctx, f.claims, dto.PatchProfileRequest{FirstName: testutil.Ptr("X")})
	require.Error(t, err)
	assert.Equal(t, "profile not found, use POST to create a profile", err.Error())

	_, err = f.svc.UpsertProfile(ctx, f.claims, fullRequest(f.student.ID))
	require.NoError(t, err)

	hobbies := []dto.HobbyInput{{HobbyName: "surfing"}}
	doc, err := f.svc.PatchProfile(ctx, f.claims, dto.PatchProfileRequest{
		LastName:   testutil.Ptr("Rao-Iyer"),
		ParentInfo: &dto.ParentInfoInput{Contact: testutil.Ptr("9000000000")},
		Hobbies:    &hobbies,
	})
	require.NoError(t, err)

	assert.Equal(t, "Asha", doc.FirstName)
	assert.Equal(t, "Rao-Iyer", doc.LastName)
	assert.Equal(t, "9000000000", *doc.ParentInfo.Contact)
	assert.Equal(t, "Ravi Rao", *doc.ParentInfo.FatherName)
	assert.Equal(t, []dto.HobbyResponse{{HobbyName: "surfing"}}, doc.Hobbies)
	assert.Len(t, doc.Addresses, 2, "absent facets are untouched")
	assert.Len(t, doc.AcademicRecords, 2)
}
