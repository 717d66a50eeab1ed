package handlers

import (
	"time"

	"unisms/internal/models"
)

type studentView struct {
	ID              string    `json:"id"`
	PermanentID     string    `json:"ip"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone"`
	Level           string    `json:"level"`
	Specialization  *string   `json:"specialization"`
	ProfileComplete bool      `json:"profileComplete"`
	Type            string    `json:"type"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newStudentView(s models.Student) studentView {
	var spec *string
	if s.Specialization != nil {
		v := string(*s.Specialization)
		spec = &v
	}
	return studentView{
		ID:              s.ID,
		PermanentID:     s.PermanentID,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Phone:           s.Phone,
		Level:           string(s.Level),
		Specialization:  spec,
		ProfileComplete: s.ProfileComplete,
		Type:            string(models.PersonStudent),
		CreatedAt:       s.CreatedAt,
	}
}

type teacherView struct {
	ID              string    `json:"id"`
	PermanentID     string    `json:"ip"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone"`
	Grade           string    `json:"grade"`
	Specialization  string    `json:"specialization"`
	ProfileComplete bool      `json:"profileComplete"`
	Type            string    `json:"type"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newTeacherView(t models.Teacher) teacherView {
	return teacherView{
		ID:              t.ID,
		PermanentID:     t.PermanentID,
		FirstName:       t.FirstName,
		LastName:        t.LastName,
		Phone:           t.Phone,
		Grade:           string(t.Grade),
		Specialization:  string(t.Specialization),
		ProfileComplete: t.ProfileComplete,
		Type:            string(models.PersonTeacher),
		CreatedAt:       t.CreatedAt,
	}
}

type adminView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

func newAdminView(a models.Admin) adminView {
	return adminView{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Type:  string(models.RoleAdmin),
	}
}
