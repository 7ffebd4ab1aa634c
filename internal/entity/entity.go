package entity

// All lists every persisted model, in creation order, for AutoMigrate.
func All() []any {
	return []any{
		&Student{},
		&Teacher{},
		&StudentProfile{},
		&ParentInfo{},
		&Address{},
		&AcademicRecord{},
		&SiblingInfo{},
		&Hobby{},
		&Project{},
		&MoocCertificate{},
		&UserFile{},
	}
}
