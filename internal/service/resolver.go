package service

import (
	"context"

	"unisms/internal/models"
)

// Selector is one client-chosen recipient reference.
type Selector struct {
	ID   string
	Type models.PersonType
}

// Recipient is a resolved contact, detached from the person record.
type Recipient struct {
	Name        string
	Phone       string
	Type        models.PersonType
	PermanentID string
	PersonID    string
}

type StudentLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Student, error)
}

type TeacherLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.Teacher, error)
}

// Resolver expands selectors with one batched lookup per person type.
// Unknown ids are dropped without error and repeated selectors collapse
// into one recipient.
type Resolver struct {
	students StudentLookup
	teachers TeacherLookup
}

func NewResolver(students StudentLookup, teachers TeacherLookup) *Resolver {
	return &Resolver{students: students, teachers: teachers}
}

func (r *Resolver) Resolve(ctx context.Context, selectors []Selector) ([]Recipient, error) {
	var studentIDs, teacherIDs []string
	seen := make(map[Selector]struct{}, len(selectors))
	for _, sel := range selectors {
		if _, dup := seen[sel]; dup {
			continue
		}
		seen[sel] = struct{}{}
		switch sel.Type {
		case models.PersonStudent:
			studentIDs = append(studentIDs, sel.ID)
		case models.PersonTeacher:
			teacherIDs = append(teacherIDs, sel.ID)
		default:
			return nil, validationError("unknown recipient type %q", sel.Type)
		}
	}

	students, err := fetchRecipients(ctx, studentIDs, r.students.ListByIDs)
	if err != nil {
		return nil, persistenceError("resolve students", err)
	}
	teachers, err := fetchRecipients(ctx, teacherIDs, r.teachers.ListByIDs)
	if err != nil {
		return nil, persistenceError("resolve teachers", err)
	}

	return append(students, teachers...), nil
}

func fetchRecipients[P models.Person](ctx context.Context, ids []string, lookup func(context.Context, []string) ([]P, error)) ([]Recipient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	people, err := lookup(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toRecipients(people), nil
}

func toRecipients[P models.Person](people []P) []Recipient {
	recipients := make([]Recipient, 0, len(people))
	for _, person := range people {
		recipients = append(recipients, Recipient{
			Name:        person.FullName(),
			Phone:       person.PhoneNumber(),
			Type:        person.Type(),
			PermanentID: person.PermanentIdentifier(),
			PersonID:    person.RecordID(),
		})
	}
	return recipients
}
