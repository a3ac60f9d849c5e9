package service

import (
	"context"
	"fmt"
	"time"

	"exam-service/internal/apperr"
	"exam-service/internal/models"
)

// In-memory store fakes. They copy on read and write the way a database
// round-trip would, so stale-pointer bugs surface in tests.

func cloneSlots(slots []models.AnswerSlot) []models.AnswerSlot {
	if slots == nil {
		return nil
	}
	out := make([]models.AnswerSlot, len(slots))
	for i, s := range slots {
		if s.UserAnswer != nil {
			v := *s.UserAnswer
			s.UserAnswer = &v
		}
		if s.IsCorrect != nil {
			v := *s.IsCorrect
			s.IsCorrect = &v
		}
		s.Question.Options = append([]models.Option(nil), s.Question.Options...)
		out[i] = s
	}
	return out
}

func cloneExam(e *models.Exam) *models.Exam {
	cp := *e
	cp.Questions = cloneSlots(e.Questions)
	cp.ExtraQuestions = cloneSlots(e.ExtraQuestions)
	cp.MistakesDetails = append([]models.MistakeDetail(nil), e.MistakesDetails...)
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func cloneMarathon(m *models.MarathonExam) *models.MarathonExam {
	cp := *m
	cp.Questions = cloneSlots(m.Questions)
	cp.MistakesDetails = append([]models.MistakeDetail(nil), m.MistakesDetails...)
	cp.AnsweredQuestions = append([]models.AnsweredQuestion(nil), m.AnsweredQuestions...)
	if m.CompletedAt != nil {
		t := *m.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func clonePracticeSession(s *models.RandomQuestionSession) *models.RandomQuestionSession {
	cp := *s
	cp.Questions = make([]models.PracticeQuestion, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]models.Option(nil), q.Options...)
		cp.Questions[i] = q
	}
	return &cp
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	if u.Subscription.ExpiresAt != nil {
		t := *u.Subscription.ExpiresAt
		cp.Subscription.ExpiresAt = &t
	}
	cp.TicketsProgress = make([]models.TicketProgress, len(u.TicketsProgress))
	for i, p := range u.TicketsProgress {
		if p.CompletedAt != nil {
			t := *p.CompletedAt
			p.CompletedAt = &t
		}
		p.AnsweredQuestions = append([]models.AnsweredQuestion(nil), p.AnsweredQuestions...)
		p.MistakesDetails = append([]models.MistakeDetail(nil), p.MistakesDetails...)
		cp.TicketsProgress[i] = p
	}
	return &cp
}

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

type fakeTicketStore struct {
	tickets []models.Ticket
}

func (f *fakeTicketStore) FindByNumber(_ context.Context, number int) (*models.Ticket, error) {
	for i := range f.tickets {
		if f.tickets[i].Number == number {
			cp := f.tickets[i]
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("ticket %d not found", number)
}

func (f *fakeTicketStore) FindAll(_ context.Context) ([]models.Ticket, error) {
	return append([]models.Ticket(nil), f.tickets...), nil
}

func (f *fakeTicketStore) Numbers(_ context.Context) ([]int, error) {
	numbers := make([]int, len(f.tickets))
	for i, t := range f.tickets {
		numbers[i] = t.Number
	}
	return numbers, nil
}

func (f *fakeTicketStore) QuestionsByCategory(_ context.Context, category string) ([]models.Question, error) {
	var out []models.Question
	for _, t := range f.tickets {
		for _, q := range t.Questions {
			if q.Category == category {
				out = append(out, q)
			}
		}
	}
	return out, nil
}

func (f *fakeTicketStore) AllQuestions(_ context.Context) ([]models.Question, error) {
	var out []models.Question
	for _, t := range f.tickets {
		out = append(out, t.Questions...)
	}
	return out, nil
}

func (f *fakeTicketStore) AllPracticeQuestions(_ context.Context) ([]models.PracticeQuestion, error) {
	var out []models.PracticeQuestion
	for _, t := range f.tickets {
		for _, q := range t.Questions {
			out = append(out, models.PracticeQuestion{Question: q, TicketNumber: t.Number})
		}
	}
	return out, nil
}

type fakeExamStore struct {
	exams  map[string]*models.Exam
	nextID int
}

func newFakeExamStore() *fakeExamStore {
	return &fakeExamStore{exams: make(map[string]*models.Exam)}
}

func (f *fakeExamStore) FindByID(_ context.Context, id string) (*models.Exam, error) {
	stored, ok := f.exams[id]
	if !ok {
		return nil, apperr.NotFound("exam %s not found", id)
	}
	return cloneExam(stored), nil
}

func (f *fakeExamStore) Create(_ context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		f.nextID++
		exam.ID = fmt.Sprintf("exam-%d", f.nextID)
	}
	exam.Version = 1
	f.exams[exam.ID] = cloneExam(exam)
	return nil
}

func (f *fakeExamStore) ReplaceVersioned(_ context.Context, exam *models.Exam) error {
	stored, ok := f.exams[exam.ID]
	if !ok || stored.Version != exam.Version {
		return apperr.Conflict("exam %s was modified concurrently", exam.ID)
	}
	exam.Version++
	f.exams[exam.ID] = cloneExam(exam)
	return nil
}

func (f *fakeExamStore) FindLastTerminalByUser(_ context.Context, userID string) (*models.Exam, error) {
	var last *models.Exam
	for _, e := range f.exams {
		if e.UserID != userID || !e.IsTerminal() || e.CompletedAt == nil {
			continue
		}
		if last == nil || e.CompletedAt.After(*last.CompletedAt) {
			last = e
		}
	}
	if last == nil {
		return nil, nil
	}
	return cloneExam(last), nil
}

type fakeMarathonStore struct {
	marathons map[string]*models.MarathonExam
	nextID    int
}

func newFakeMarathonStore() *fakeMarathonStore {
	return &fakeMarathonStore{marathons: make(map[string]*models.MarathonExam)}
}

func (f *fakeMarathonStore) FindByID(_ context.Context, id string) (*models.MarathonExam, error) {
	stored, ok := f.marathons[id]
	if !ok {
		return nil, apperr.NotFound("marathon %s not found", id)
	}
	return cloneMarathon(stored), nil
}

func (f *fakeMarathonStore) FindInProgressByUser(_ context.Context, userID string) (*models.MarathonExam, error) {
	for _, m := range f.marathons {
		if m.UserID == userID && !m.IsTerminal() {
			return cloneMarathon(m), nil
		}
	}
	return nil, nil
}

func (f *fakeMarathonStore) Create(_ context.Context, marathon *models.MarathonExam) error {
	if marathon.ID == "" {
		f.nextID++
		marathon.ID = fmt.Sprintf("marathon-%d", f.nextID)
	}
	marathon.Version = 1
	f.marathons[marathon.ID] = cloneMarathon(marathon)
	return nil
}

func (f *fakeMarathonStore) ReplaceVersioned(_ context.Context, marathon *models.MarathonExam) error {
	stored, ok := f.marathons[marathon.ID]
	if !ok || stored.Version != marathon.Version {
		return apperr.Conflict("marathon %s was modified concurrently", marathon.ID)
	}
	marathon.Version++
	f.marathons[marathon.ID] = cloneMarathon(marathon)
	return nil
}

type fakePracticeStore struct {
	sessions map[string]*models.RandomQuestionSession
	nextID   int
}

func newFakePracticeStore() *fakePracticeStore {
	return &fakePracticeStore{sessions: make(map[string]*models.RandomQuestionSession)}
}

func (f *fakePracticeStore) Create(_ context.Context, session *models.RandomQuestionSession) error {
	if session.ID == "" {
		f.nextID++
		session.ID = fmt.Sprintf("practice-%d", f.nextID)
	}
	f.sessions[session.ID] = clonePracticeSession(session)
	return nil
}

func (f *fakePracticeStore) FindByID(_ context.Context, id string) (*models.RandomQuestionSession, error) {
	stored, ok := f.sessions[id]
	if !ok {
		return nil, apperr.NotFound("practice session %s not found", id)
	}
	return clonePracticeSession(stored), nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = cloneUser(u)
	}
	return f
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return cloneUser(stored), nil
}

func (f *fakeUserStore) Save(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.NotFound("user %s not found", user.ID)
	}
	f.users[user.ID] = cloneUser(user)
	return nil
}

func testQuestion(id, category string, correct int) models.Question {
	opts := make([]models.Option, 3)
	for i := range opts {
		opts[i] = models.Option{Text: fmt.Sprintf("%s-opt%d", id, i), IsCorrect: i == correct}
	}
	return models.Question{
		ID:       id,
		Text:     "text-" + id,
		Options:  opts,
		Category: category,
	}
}

func testTicket(number, questions int) models.Ticket {
	t := models.Ticket{ID: fmt.Sprintf("ticket-%d", number), Number: number}
	for i := 0; i < questions; i++ {
		t.Questions = append(t.Questions, testQuestion(fmt.Sprintf("t%d-q%d", number, i), "signs", 0))
	}
	return t
}

func testUser(id string) *models.User {
	return &models.User{
		ID:           id,
		Username:     "tester",
		Subscription: models.Subscription{Type: "free"},
	}
}
