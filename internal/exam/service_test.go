package exam

import (
	"context"
	"errors"
	"testing"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

func seedExamData(t *testing.T, st *store.MemoryStore) {
	t.Helper()
	ctx := context.Background()

	if err := st.InsertUser(ctx, store.User{
		UserID: 1, FullName: "Alice Student", Email: "alice@example.com", Role: store.RoleStudent,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	questions := []store.Question{
		{QuestionID: 1, QuestionText: "2+2?", Options: []string{"4", "5"}, CorrectAnswer: 0, Subject: "Math", Difficulty: store.DifficultyEasy, Marks: 5},
		{QuestionID: 2, QuestionText: "3*3?", Options: []string{"6", "9"}, CorrectAnswer: 1, Subject: "Math", Difficulty: store.DifficultyEasy, Marks: 3},
		{QuestionID: 3, QuestionText: "10/2?", Options: []string{"5", "2"}, CorrectAnswer: 0, Subject: "Math", Difficulty: store.DifficultyMedium, Marks: 4},
	}
	for _, q := range questions {
		if err := st.InsertQuestion(ctx, q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}

	exams := []store.Exam{
		{ExamID: 10, Title: "Algebra Basics", Subject: "Math", Duration: 30, Status: store.ExamUpcoming, QuestionIDs: []int{1, 2}},
		{ExamID: 11, Title: "Arithmetic", Subject: "Math", Duration: 20, Status: store.ExamOngoing},
		{ExamID: 12, Title: "Geometry", Subject: "Math", Duration: 45, Status: store.ExamCompleted},
	}
	for _, e := range exams {
		if err := st.InsertExam(ctx, e); err != nil {
			t.Fatalf("seed exam: %v", err)
		}
	}
}

func TestDashboardForStudent(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	ctx := context.Background()

	if err := st.InsertResult(ctx, store.ExamResult{ResultID: 1, ExamID: 10, StudentID: 1}); err != nil {
		t.Fatalf("seed result: %v", err)
	}

	svc := NewService(st, PolicyAccumulate)
	dash, err := svc.DashboardForStudent(ctx, 1)
	if err != nil {
		t.Fatalf("DashboardForStudent: %v", err)
	}

	byID := map[int]string{}
	for _, e := range dash.Exams {
		byID[e.ExamID] = e.Status
	}
	if byID[10] != store.ExamCompleted {
		t.Fatalf("taken exam status = %q, want COMPLETED", byID[10])
	}
	if byID[11] != store.ExamOngoing {
		t.Fatalf("untaken exam status = %q, want ONGOING", byID[11])
	}

	// The taken exam reads completed, the ongoing exam still counts as
	// enterable for the student.
	want := StudentStats{UpcomingExams: 1, CompletedExams: 2, TotalExams: 3}
	if dash.Stats != want {
		t.Fatalf("stats = %+v, want %+v", dash.Stats, want)
	}

	// The stored status must be untouched by the per-student view.
	stored, err := st.FindExamByID(ctx, 10)
	if err != nil {
		t.Fatalf("FindExamByID: %v", err)
	}
	if stored.Status != store.ExamUpcoming {
		t.Fatalf("stored status = %q, want UPCOMING", stored.Status)
	}
}

func TestDashboardForTeacher(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)

	svc := NewService(st, PolicyAccumulate)
	dash, err := svc.DashboardForTeacher(context.Background())
	if err != nil {
		t.Fatalf("DashboardForTeacher: %v", err)
	}

	// An ongoing exam is neither upcoming nor completed in the teacher view.
	want := TeacherStats{TotalExams: 3, TotalQuestions: 3, UpcomingExams: 1, CompletedExams: 1}
	if dash.Stats != want {
		t.Fatalf("stats = %+v, want %+v", dash.Stats, want)
	}
}

func TestQuestionsForExamRedactsAnswers(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	ctx := context.Background()

	svc := NewService(st, PolicyAccumulate)
	questions, err := svc.QuestionsForExam(ctx, 10)
	if err != nil {
		t.Fatalf("QuestionsForExam: %v", err)
	}

	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[0].QuestionID != 1 || questions[1].QuestionID != 2 {
		t.Fatalf("question order = %d, %d, want 1, 2", questions[0].QuestionID, questions[1].QuestionID)
	}
	for _, q := range questions {
		if q.CorrectAnswer != store.HiddenAnswer {
			t.Fatalf("question %d leaked correctAnswer %d", q.QuestionID, q.CorrectAnswer)
		}
	}

	// Redaction must not corrupt the stored bank.
	stored, err := st.FindQuestionByID(ctx, 1)
	if err != nil {
		t.Fatalf("FindQuestionByID: %v", err)
	}
	if stored.CorrectAnswer != 0 {
		t.Fatalf("stored correctAnswer = %d, want 0", stored.CorrectAnswer)
	}
}

func TestQuestionsForExamFallsBackToBank(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)

	svc := NewService(st, PolicyAccumulate)
	// Exam 11 has no linked questions, so the whole bank is served.
	questions, err := svc.QuestionsForExam(context.Background(), 11)
	if err != nil {
		t.Fatalf("QuestionsForExam: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}
}

func TestQuestionsForExamNotFound(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), PolicyAccumulate)
	if _, err := svc.QuestionsForExam(context.Background(), 999); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
}

func TestSubmitGradesAgainstExamQuestions(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)

	svc := NewService(st, PolicyAccumulate)
	// Question 3 carries 4 marks but is not linked to exam 10, so it must
	// not affect the score or the total.
	result, err := svc.Submit(context.Background(), 1, 10, map[int]int{1: 0, 2: 0, 3: 0})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if result.Score != 5 || result.TotalMarks != 8 || result.Percentage != 62 {
		t.Fatalf("result = %d/%d (%d%%), want 5/8 (62%%)", result.Score, result.TotalMarks, result.Percentage)
	}
	if result.ResultID != 1 {
		t.Fatalf("resultId = %d, want 1", result.ResultID)
	}
	if result.ExamTitle != "Algebra Basics" {
		t.Fatalf("examTitle = %q", result.ExamTitle)
	}
	if result.StudentName != "Alice Student" || result.StudentEmail != "alice@example.com" {
		t.Fatalf("student snapshot = %q / %q", result.StudentName, result.StudentEmail)
	}
	if result.SubmittedAt == "" {
		t.Fatal("submittedAt not stamped")
	}
}

func TestSubmitUnknownStudentFallback(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)

	svc := NewService(st, PolicyAccumulate)
	result, err := svc.Submit(context.Background(), 999, 10, map[int]int{1: 0})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.StudentName != "Unknown Student" || result.StudentEmail != "unknown@example.com" {
		t.Fatalf("fallback snapshot = %q / %q", result.StudentName, result.StudentEmail)
	}
}

func TestSubmitMissingExam(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)

	svc := NewService(st, PolicyAccumulate)
	if _, err := svc.Submit(context.Background(), 1, 999, nil); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
}

func TestSubmitResubmissionPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("accumulate keeps every attempt", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedExamData(t, st)
		svc := NewService(st, PolicyAccumulate)

		if _, err := svc.Submit(ctx, 1, 10, map[int]int{1: 0}); err != nil {
			t.Fatalf("first Submit: %v", err)
		}
		second, err := svc.Submit(ctx, 1, 10, map[int]int{1: 0, 2: 1})
		if err != nil {
			t.Fatalf("second Submit: %v", err)
		}
		if second.ResultID != 2 {
			t.Fatalf("second resultId = %d, want 2", second.ResultID)
		}

		results, err := st.FindResultsByExamID(ctx, 10)
		if err != nil {
			t.Fatalf("FindResultsByExamID: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("stored results = %d, want 2", len(results))
		}
	})

	t.Run("reject refuses a second attempt", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedExamData(t, st)
		svc := NewService(st, PolicyReject)

		if _, err := svc.Submit(ctx, 1, 10, map[int]int{1: 0}); err != nil {
			t.Fatalf("first Submit: %v", err)
		}
		if _, err := svc.Submit(ctx, 1, 10, map[int]int{1: 0}); !errors.Is(err, ErrAlreadyTaken) {
			t.Fatalf("err = %v, want ErrAlreadyTaken", err)
		}
		// A different exam is still open to the same student.
		if _, err := svc.Submit(ctx, 1, 11, nil); err != nil {
			t.Fatalf("other exam Submit: %v", err)
		}
	})
}

func TestCreateExam(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	ctx := context.Background()

	svc := NewService(st, PolicyAccumulate)
	exam, err := svc.CreateExam(ctx, CreateExamInput{
		Title:    "Fractions",
		Subject:  "Math",
		Duration: 40,
		// Linked questions override the caller's counts.
		TotalQuestions: 99,
		TotalMarks:     99,
		QuestionIDs:    []int{1, 3},
	}, "Tess Teacher")
	if err != nil {
		t.Fatalf("CreateExam: %v", err)
	}

	if exam.ExamID != 13 {
		t.Fatalf("examId = %d, want 13", exam.ExamID)
	}
	if exam.TotalQuestions != 2 || exam.TotalMarks != 9 {
		t.Fatalf("totals = %d questions / %d marks, want 2 / 9", exam.TotalQuestions, exam.TotalMarks)
	}
	if exam.Status != store.ExamUpcoming {
		t.Fatalf("status = %q, want default UPCOMING", exam.Status)
	}
	if exam.CreatedBy != "Tess Teacher" {
		t.Fatalf("createdBy = %q, want %q", exam.CreatedBy, "Tess Teacher")
	}
}

func TestCreateExamValidation(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	svc := NewService(st, PolicyAccumulate)

	tests := []struct {
		name string
		in   CreateExamInput
	}{
		{name: "missing title", in: CreateExamInput{Duration: 30}},
		{name: "zero duration", in: CreateExamInput{Title: "X"}},
		{name: "bad status", in: CreateExamInput{Title: "X", Duration: 30, Status: "PAUSED"}},
		{name: "missing linked question", in: CreateExamInput{Title: "X", Duration: 30, QuestionIDs: []int{1, 999}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateExam(context.Background(), tc.in, "Tess Teacher"); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestResultByID(t *testing.T) {
	st := store.NewMemoryStore()
	seedExamData(t, st)
	ctx := context.Background()

	svc := NewService(st, PolicyAccumulate)
	submitted, err := svc.Submit(ctx, 1, 10, map[int]int{1: 0})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	found, err := svc.ResultByID(ctx, submitted.ResultID)
	if err != nil {
		t.Fatalf("ResultByID: %v", err)
	}
	if found.Score != submitted.Score || found.ExamID != 10 {
		t.Fatalf("unexpected result: %+v", found)
	}

	if _, err := svc.ResultByID(ctx, 999); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("err = %v, want ErrResultNotFound", err)
	}
}
