package models

import (
	"strings"
	"time"
)

type PersonType string

const (
	PersonStudent PersonType = "student"
	PersonTeacher PersonType = "teacher"
)

func (t PersonType) Valid() bool {
	return t == PersonStudent || t == PersonTeacher
}

type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
	LevelM1 Level = "M1"
	LevelM2 Level = "M2"
)

var Levels = []Level{LevelL1, LevelL2, LevelL3, LevelM1, LevelM2}

func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// CommonTrack reports whether students at this level share the common
// curriculum and therefore carry no specialization.
func (l Level) CommonTrack() bool {
	return l == LevelL1 || l == LevelL2
}

type Grade string

const (
	GradeProfessor          Grade = "Professeur"
	GradeAssociateProfessor Grade = "Maître de Conférences"
	GradeAssistant          Grade = "Assistant"
	GradeLecturer           Grade = "Chargé de Cours"
	GradeDoctoral           Grade = "Doctorant"
)

var Grades = []Grade{GradeProfessor, GradeAssociateProfessor, GradeAssistant, GradeLecturer, GradeDoctoral}

func (g Grade) Valid() bool {
	for _, known := range Grades {
		if g == known {
			return true
		}
	}
	return false
}

type Specialization string

const (
	SpecializationMath        Specialization = "Math"
	SpecializationInformatics Specialization = "Informatics"
)

func (s Specialization) Valid() bool {
	return s == SpecializationMath || s == SpecializationInformatics
}

// Person is the part of a student or teacher record the notification
// workflow depends on.
type Person interface {
	RecordID() string
	Type() PersonType
	PermanentIdentifier() string
	PhoneNumber() string
	FullName() string
	IsProfileComplete() bool
}

// Profile holds the fields shared by every person record.
type Profile struct {
	ID              string
	PermanentID     string
	Phone           string
	FirstName       string
	LastName        string
	ProfileComplete bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p Profile) RecordID() string            { return p.ID }
func (p Profile) PermanentIdentifier() string { return p.PermanentID }
func (p Profile) PhoneNumber() string         { return p.Phone }
func (p Profile) IsProfileComplete() bool     { return p.ProfileComplete }

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// SetNames stores trimmed names and recomputes ProfileComplete.
func (p *Profile) SetNames(firstName, lastName string) {
	p.FirstName = strings.TrimSpace(firstName)
	p.LastName = strings.TrimSpace(lastName)
	p.ProfileComplete = p.FirstName != "" && p.LastName != ""
}

type Student struct {
	Profile
	Level          Level
	Specialization *Specialization
}

func (Student) Type() PersonType { return PersonStudent }

// ApplyTrack clears the specialization for common-track levels.
func (s *Student) ApplyTrack() {
	if s.Level.CommonTrack() {
		s.Specialization = nil
	}
}

type Teacher struct {
	Profile
	Grade          Grade
	Specialization Specialization
}

func (Teacher) Type() PersonType { return PersonTeacher }
