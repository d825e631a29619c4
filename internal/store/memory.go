package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps all records in-process behind one mutex. It backs unit
// tests and local runs without a database; every read hands out copies so
// callers can redact or mutate freely.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[int]User
	questions map[int]Question
	exams     map[int]Exam
	results   map[int]ExamResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int]User),
		questions: make(map[int]Question),
		exams:     make(map[int]Exam),
		results:   make(map[int]ExamResult),
	}
}

func (m *MemoryStore) NextID(ctx context.Context, collection string) (int, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()

	max := 0
	switch collection {
	case CollectionUsers:
		for id := range m.users {
			if id > max {
				max = id
			}
		}
	case CollectionQuestions:
		for id := range m.questions {
			if id > max {
				max = id
			}
		}
	case CollectionExams:
		for id := range m.exams {
			if id > max {
				max = id
			}
		}
	case CollectionResults:
		for id := range m.results {
			if id > max {
				max = id
			}
		}
	}
	return max + 1, nil
}

func (m *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindUserByID(ctx context.Context, userID int) (*User, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := u
	return &out, nil
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]User, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *MemoryStore) InsertUser(ctx context.Context, u User) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.UserID]; exists {
		return ErrDuplicateID
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	m.users[u.UserID] = u
	return nil
}

func (m *MemoryStore) UpdateUser(ctx context.Context, u User) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.UserID]; !ok {
		return ErrNotFound
	}
	for _, existing := range m.users {
		if existing.UserID != u.UserID && existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	m.users[u.UserID] = u
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, userID int) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[userID]; !ok {
		return ErrNotFound
	}
	delete(m.users, userID)
	return nil
}

func (m *MemoryStore) FindQuestionByID(ctx context.Context, questionID int) (*Question, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[questionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyQuestion(q)
	return &out, nil
}

func (m *MemoryStore) FindQuestionsByIDs(ctx context.Context, questionIDs []int) ([]Question, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Question, 0, len(questionIDs))
	for _, id := range questionIDs {
		if q, ok := m.questions[id]; ok {
			out = append(out, copyQuestion(q))
		}
	}
	return out, nil
}

func (m *MemoryStore) ListQuestions(ctx context.Context) ([]Question, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Question, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, copyQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (m *MemoryStore) InsertQuestion(ctx context.Context, q Question) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.questions[q.QuestionID]; exists {
		return ErrDuplicateID
	}
	m.questions[q.QuestionID] = copyQuestion(q)
	return nil
}

func (m *MemoryStore) UpdateQuestion(ctx context.Context, q Question) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[q.QuestionID]; !ok {
		return ErrNotFound
	}
	m.questions[q.QuestionID] = copyQuestion(q)
	return nil
}

func (m *MemoryStore) DeleteQuestion(ctx context.Context, questionID int) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[questionID]; !ok {
		return ErrNotFound
	}
	delete(m.questions, questionID)
	return nil
}

func (m *MemoryStore) FindExamByID(ctx context.Context, examID int) (*Exam, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[examID]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyExam(e)
	return &out, nil
}

func (m *MemoryStore) ListExams(ctx context.Context) ([]Exam, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Exam, 0, len(m.exams))
	for _, e := range m.exams {
		out = append(out, copyExam(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExamID < out[j].ExamID })
	return out, nil
}

func (m *MemoryStore) InsertExam(ctx context.Context, e Exam) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.exams[e.ExamID]; exists {
		return ErrDuplicateID
	}
	m.exams[e.ExamID] = copyExam(e)
	return nil
}

func (m *MemoryStore) FindResultByID(ctx context.Context, resultID int) (*ExamResult, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[resultID]
	if !ok {
		return nil, ErrNotFound
	}
	out := r
	return &out, nil
}

func (m *MemoryStore) FindResultsByExamID(ctx context.Context, examID int) ([]ExamResult, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ExamResult, 0)
	for _, r := range m.results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResultID < out[j].ResultID })
	return out, nil
}

func (m *MemoryStore) FindResultsByStudentID(ctx context.Context, studentID int) ([]ExamResult, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ExamResult, 0)
	for _, r := range m.results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResultID < out[j].ResultID })
	return out, nil
}

func (m *MemoryStore) FindExamIDsByStudentID(ctx context.Context, studentID int) ([]int, error) {
	results, err := m.FindResultsByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(results))
	for _, r := range results {
		out = append(out, r.ExamID)
	}
	return out, nil
}

func (m *MemoryStore) InsertResult(ctx context.Context, r ExamResult) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.results[r.ResultID]; exists {
		return ErrDuplicateID
	}
	m.results[r.ResultID] = r
	return nil
}

func copyQuestion(q Question) Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}

func copyExam(e Exam) Exam {
	out := e
	out.QuestionIDs = append([]int(nil), e.QuestionIDs...)
	return out
}
