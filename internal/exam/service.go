package exam

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

var (
	ErrExamNotFound   = errors.New("exam not found")
	ErrResultNotFound = errors.New("result not found")
	ErrAlreadyTaken   = errors.New("exam already submitted")
	ErrInvalidInput   = errors.New("invalid input")
)

// Resubmission policies. Accumulate records every submission as a fresh
// result; reject refuses a second submission for the same exam.
const (
	PolicyAccumulate = "accumulate"
	PolicyReject     = "reject"
)

// Fallback labels recorded when a referenced entity no longer resolves.
const (
	unknownStudent = "Unknown Student"
	unknownEmail   = "unknown@example.com"
	unknownExam    = "Unknown Exam"
)

// Service implements the exam session workflow: listing exams, serving
// redacted question sets, grading submissions and recording results.
type Service struct {
	store  store.Store
	policy string
}

func NewService(st store.Store, resubmissionPolicy string) *Service {
	if resubmissionPolicy != PolicyReject {
		resubmissionPolicy = PolicyAccumulate
	}
	return &Service{store: st, policy: resubmissionPolicy}
}

type StudentStats struct {
	UpcomingExams  int `json:"upcomingExams"`
	CompletedExams int `json:"completedExams"`
	TotalExams     int `json:"totalExams"`
}

type StudentDashboard struct {
	Exams []store.Exam `json:"exams"`
	Stats StudentStats `json:"stats"`
}

// DashboardForStudent lists every exam with the student's own view of its
// status: an exam the student already has a result for reads COMPLETED no
// matter what the stored status says. Ongoing exams count as upcoming in
// the student's stats since they can still be entered.
func (s *Service) DashboardForStudent(ctx context.Context, studentID int) (*StudentDashboard, error) {
	exams, err := s.store.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}

	takenIDs, err := s.store.FindExamIDsByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("find taken exams: %w", err)
	}
	taken := make(map[int]struct{}, len(takenIDs))
	for _, id := range takenIDs {
		taken[id] = struct{}{}
	}

	dash := &StudentDashboard{Exams: exams, Stats: StudentStats{TotalExams: len(exams)}}
	for i := range dash.Exams {
		if _, ok := taken[dash.Exams[i].ExamID]; ok {
			dash.Exams[i].Status = store.ExamCompleted
		}
		switch dash.Exams[i].Status {
		case store.ExamUpcoming, store.ExamOngoing:
			dash.Stats.UpcomingExams++
		case store.ExamCompleted:
			dash.Stats.CompletedExams++
		}
	}
	return dash, nil
}

type TeacherStats struct {
	TotalExams     int `json:"totalExams"`
	TotalQuestions int `json:"totalQuestions"`
	UpcomingExams  int `json:"upcomingExams"`
	CompletedExams int `json:"completedExams"`
}

type TeacherDashboard struct {
	Exams []store.Exam `json:"exams"`
	Stats TeacherStats `json:"stats"`
}

// DashboardForTeacher reports stored exam statuses as-is. Unlike the
// student view, an ongoing exam is neither upcoming nor completed here.
func (s *Service) DashboardForTeacher(ctx context.Context) (*TeacherDashboard, error) {
	exams, err := s.store.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	dash := &TeacherDashboard{
		Exams: exams,
		Stats: TeacherStats{TotalExams: len(exams), TotalQuestions: len(questions)},
	}
	for _, e := range exams {
		switch e.Status {
		case store.ExamUpcoming:
			dash.Stats.UpcomingExams++
		case store.ExamCompleted:
			dash.Stats.CompletedExams++
		}
	}
	return dash, nil
}

func (s *Service) ExamByID(ctx context.Context, examID int) (*store.Exam, error) {
	exam, err := s.store.FindExamByID(ctx, examID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}
	return exam, nil
}

// QuestionsForExam returns the exam's question set with the correct answer
// replaced by the hidden marker. An exam with no linked questions falls
// back to the whole bank.
func (s *Service) QuestionsForExam(ctx context.Context, examID int) ([]store.Question, error) {
	questions, err := s.examQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].CorrectAnswer = store.HiddenAnswer
	}
	return questions, nil
}

func (s *Service) examQuestions(ctx context.Context, examID int) ([]store.Question, error) {
	exam, err := s.ExamByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	if len(exam.QuestionIDs) > 0 {
		questions, err := s.store.FindQuestionsByIDs(ctx, exam.QuestionIDs)
		if err != nil {
			return nil, fmt.Errorf("find exam questions: %w", err)
		}
		return questions, nil
	}

	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Submit grades the student's answers against the exam's own question set
// and records the result. Unresolvable exam or student references are
// recorded with placeholder labels rather than failing the submission.
func (s *Service) Submit(ctx context.Context, studentID, examID int, answers map[int]int) (*store.ExamResult, error) {
	if s.policy == PolicyReject {
		takenIDs, err := s.store.FindExamIDsByStudentID(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("find taken exams: %w", err)
		}
		for _, id := range takenIDs {
			if id == examID {
				return nil, ErrAlreadyTaken
			}
		}
	}

	questions, err := s.examQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	grade := Grade(questions, answers)

	result := &store.ExamResult{
		ExamID:       examID,
		ExamTitle:    unknownExam,
		StudentID:    studentID,
		StudentName:  unknownStudent,
		StudentEmail: unknownEmail,
		Score:        grade.Score,
		TotalMarks:   grade.TotalMarks,
		Percentage:   grade.Percentage,
		SubmittedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if exam, err := s.store.FindExamByID(ctx, examID); err == nil {
		result.ExamTitle = exam.Title
	}
	if student, err := s.store.FindUserByID(ctx, studentID); err == nil {
		result.StudentName = student.FullName
		result.StudentEmail = student.Email
	}

	id, err := store.CreateWithID(ctx, s.store, store.CollectionResults, func(id int) error {
		result.ResultID = id
		return s.store.InsertResult(ctx, *result)
	})
	if err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	result.ResultID = id
	return result, nil
}

func (s *Service) ResultByID(ctx context.Context, resultID int) (*store.ExamResult, error) {
	result, err := s.store.FindResultByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("find result: %w", err)
	}
	return result, nil
}

func (s *Service) ResultsByExam(ctx context.Context, examID int) ([]store.ExamResult, error) {
	results, err := s.store.FindResultsByExamID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}
	return results, nil
}

type CreateExamInput struct {
	Title          string `json:"title"`
	Subject        string `json:"subject"`
	Duration       int    `json:"duration"`
	TotalQuestions int    `json:"totalQuestions"`
	TotalMarks     int    `json:"totalMarks"`
	Status         string `json:"status"`
	ScheduledAt    string `json:"scheduledAt"`
	QuestionIDs    []int  `json:"questionIds"`
}

func (s *Service) CreateExam(ctx context.Context, in CreateExamInput, createdBy string) (*store.Exam, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = store.ExamUpcoming
	}
	switch in.Status {
	case store.ExamUpcoming, store.ExamOngoing, store.ExamCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}

	if len(in.QuestionIDs) > 0 {
		linked, err := s.store.FindQuestionsByIDs(ctx, in.QuestionIDs)
		if err != nil {
			return nil, fmt.Errorf("find linked questions: %w", err)
		}
		if len(linked) != len(in.QuestionIDs) {
			return nil, fmt.Errorf("%w: questionIds reference missing questions", ErrInvalidInput)
		}
		in.TotalQuestions = len(linked)
		marks := 0
		for _, q := range linked {
			marks += q.Marks
		}
		in.TotalMarks = marks
	}

	exam := &store.Exam{
		Title:          in.Title,
		Subject:        in.Subject,
		Duration:       in.Duration,
		TotalQuestions: in.TotalQuestions,
		TotalMarks:     in.TotalMarks,
		Status:         in.Status,
		ScheduledAt:    in.ScheduledAt,
		CreatedBy:      createdBy,
		QuestionIDs:    in.QuestionIDs,
	}

	id, err := store.CreateWithID(ctx, s.store, store.CollectionExams, func(id int) error {
		exam.ExamID = id
		return s.store.InsertExam(ctx, *exam)
	})
	if err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	exam.ExamID = id
	return exam, nil
}
