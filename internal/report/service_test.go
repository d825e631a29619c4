package report

import (
	"context"
	"errors"
	"testing"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

func TestSummaryByExam(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.InsertExam(ctx, store.Exam{ExamID: 10, Title: "Algebra Basics", TotalMarks: 8}); err != nil {
		t.Fatalf("seed exam: %v", err)
	}
	results := []store.ExamResult{
		{ResultID: 1, ExamID: 10, StudentID: 1, Score: 8, TotalMarks: 8, Percentage: 100},
		{ResultID: 2, ExamID: 10, StudentID: 2, Score: 5, TotalMarks: 8, Percentage: 62},
		{ResultID: 3, ExamID: 10, StudentID: 3, Score: 0, TotalMarks: 8, Percentage: 0},
		{ResultID: 4, ExamID: 99, StudentID: 1, Score: 3, TotalMarks: 8, Percentage: 37},
	}
	for _, res := range results {
		if err := st.InsertResult(ctx, res); err != nil {
			t.Fatalf("seed result: %v", err)
		}
	}

	svc := NewService(st)
	summary, err := svc.SummaryByExam(ctx, 10)
	if err != nil {
		t.Fatalf("SummaryByExam: %v", err)
	}

	if summary.Participants != 3 {
		t.Fatalf("participants = %d, want 3", summary.Participants)
	}
	if summary.HighestScore != 8 || summary.LowestScore != 0 {
		t.Fatalf("scores = high %d / low %d, want 8 / 0", summary.HighestScore, summary.LowestScore)
	}
	if summary.AveragePercentage != 54 {
		t.Fatalf("averagePercentage = %v, want 54", summary.AveragePercentage)
	}
	if summary.ExamTitle != "Algebra Basics" || summary.TotalMarks != 8 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSummaryByExamNoResults(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	if err := st.InsertExam(ctx, store.Exam{ExamID: 10, Title: "Algebra Basics"}); err != nil {
		t.Fatalf("seed exam: %v", err)
	}

	summary, err := NewService(st).SummaryByExam(ctx, 10)
	if err != nil {
		t.Fatalf("SummaryByExam: %v", err)
	}
	if summary.Participants != 0 || summary.AveragePercentage != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSummaryByExamNotFound(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	if _, err := svc.SummaryByExam(context.Background(), 999); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
}
