package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"unisms/internal/models"
	"unisms/internal/repository"
)

type memStudents struct {
	mu       sync.Mutex
	byID     map[string]models.Student
	lookups  int
	lastIDs  []string
	creates  int
	failWith error
}

func newMemStudents(students ...models.Student) *memStudents {
	m := &memStudents{byID: map[string]models.Student{}}
	for _, s := range students {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memStudents) Create(ctx context.Context, student models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.PermanentID == student.PermanentID {
			return repository.ErrDuplicatePermanentID
		}
	}
	m.creates++
	student.CreatedAt = time.Now()
	m.byID[student.ID] = student
	return nil
}

func (m *memStudents) ExistsByPermanentID(ctx context.Context, permanentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.PermanentID == permanentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStudents) FindByCredentials(ctx context.Context, permanentID, phone string) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.PermanentID == permanentID && s.Phone == phone {
			return s, nil
		}
	}
	return models.Student{}, repository.ErrStudentNotFound
}

func (m *memStudents) GetByID(ctx context.Context, id string) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return models.Student{}, repository.ErrStudentNotFound
	}
	return s, nil
}

func (m *memStudents) ListByIDs(ctx context.Context, ids []string) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	m.lastIDs = append([]string(nil), ids...)
	if m.failWith != nil {
		return nil, m.failWith
	}
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]models.Student, 0)
	for _, s := range m.sorted() {
		if wanted[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStudents) List(ctx context.Context) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memStudents) UpdateProfile(ctx context.Context, student models.Student) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[student.ID]; !ok {
		return models.Student{}, repository.ErrStudentNotFound
	}
	m.byID[student.ID] = student
	return student, nil
}

func (m *memStudents) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memStudents) CountByLevel(ctx context.Context) ([]repository.CountBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, s := range m.byID {
		counts[string(s.Level)]++
	}
	return buckets(counts), nil
}

func (m *memStudents) CountBySpecialization(ctx context.Context) ([]repository.CountBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	for _, s := range m.byID {
		if s.Specialization != nil {
			counts[string(*s.Specialization)]++
		}
	}
	return buckets(counts), nil
}

func (m *memStudents) sorted() []models.Student {
	out := make([]models.Student, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTeachers struct {
	mu      sync.Mutex
	byID    map[string]models.Teacher
	lookups int
}

func newMemTeachers(teachers ...models.Teacher) *memTeachers {
	m := &memTeachers{byID: map[string]models.Teacher{}}
	for _, t := range teachers {
		m.byID[t.ID] = t
	}
	return m
}

func (m *memTeachers) Create(ctx context.Context, teacher models.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.PermanentID == teacher.PermanentID {
			return repository.ErrDuplicatePermanentID
		}
	}
	m.byID[teacher.ID] = teacher
	return nil
}

func (m *memTeachers) ExistsByPermanentID(ctx context.Context, permanentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byID {
		if t.PermanentID == permanentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTeachers) FindByCredentials(ctx context.Context, permanentID, phone string) (models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byID {
		if t.PermanentID == permanentID && t.Phone == phone {
			return t, nil
		}
	}
	return models.Teacher{}, repository.ErrTeacherNotFound
}

func (m *memTeachers) GetByID(ctx context.Context, id string) (models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byID[id]
	if !ok {
		return models.Teacher{}, repository.ErrTeacherNotFound
	}
	return t, nil
}

func (m *memTeachers) ListByIDs(ctx context.Context, ids []string) ([]models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	wanted := map[string]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]models.Teacher, 0)
	for _, t := range m.sorted() {
		if wanted[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTeachers) List(ctx context.Context) ([]models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memTeachers) UpdateProfile(ctx context.Context, teacher models.Teacher) (models.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[teacher.ID]; !ok {
		return models.Teacher{}, repository.ErrTeacherNotFound
	}
	m.byID[teacher.ID] = teacher
	return teacher, nil
}

func (m *memTeachers) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memTeachers) sorted() []models.Teacher {
	out := make([]models.Teacher, 0, len(m.byID))
	for _, t := range m.byID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memAdmins struct {
	mu      sync.Mutex
	byEmail map[string]models.Admin
	creates int
}

func newMemAdmins() *memAdmins {
	return &memAdmins{byEmail: map[string]models.Admin{}}
}

func (m *memAdmins) Create(ctx context.Context, admin models.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[admin.Email]; ok {
		return repository.ErrDuplicateAdminEmail
	}
	m.creates++
	m.byEmail[admin.Email] = admin
	return nil
}

func (m *memAdmins) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return models.Admin{}, repository.ErrAdminNotFound
	}
	return a, nil
}

type memLedger struct {
	mu        sync.Mutex
	entries   []models.LedgerEntry
	failWith  error
	lastLimit int
}

func (m *memLedger) Insert(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.LedgerEntry{}, m.failWith
	}
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, entry)
	return entry, nil
}

func (m *memLedger) ListRecent(ctx context.Context, limit int) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	out := make([]models.LedgerEntry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *memLedger) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

type memPublisher struct {
	published []models.LedgerEntry
}

func (p *memPublisher) PublishLedger(ctx context.Context, entry models.LedgerEntry) error {
	p.published = append(p.published, entry)
	return nil
}

type countingInvalidator struct {
	calls atomic.Int64
}

func (c *countingInvalidator) InvalidateStatistics(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

// scriptedChannel fails every phone listed in failures and counts calls.
type scriptedChannel struct {
	calls     atomic.Int64
	inFlight  atomic.Int64
	maxFlight atomic.Int64
	delay     time.Duration
	failures  map[string]bool
}

func (c *scriptedChannel) Send(ctx context.Context, to string, text string) error {
	c.calls.Add(1)
	current := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		seen := c.maxFlight.Load()
		if current <= seen || c.maxFlight.CompareAndSwap(seen, current) {
			break
		}
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if c.failures[to] {
		return errors.New("provider rejected destination")
	}
	return nil
}

func buckets(counts map[string]int) []repository.CountBucket {
	out := make([]repository.CountBucket, 0, len(counts))
	for k, v := range counts {
		out = append(out, repository.CountBucket{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func student(id, permanentID, phone string, level models.Level) models.Student {
	s := models.Student{
		Profile: models.Profile{ID: id, PermanentID: permanentID, Phone: phone},
		Level:   level,
	}
	if !level.CommonTrack() {
		spec := models.SpecializationInformatics
		s.Specialization = &spec
	}
	s.SetNames("First"+id, "Last"+id)
	return s
}

func teacher(id, permanentID, phone string) models.Teacher {
	t := models.Teacher{
		Profile:        models.Profile{ID: id, PermanentID: permanentID, Phone: phone},
		Grade:          models.GradeProfessor,
		Specialization: models.SpecializationMath,
	}
	t.SetNames("First"+id, "Last"+id)
	return t
}
