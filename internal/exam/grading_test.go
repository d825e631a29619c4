package exam

import (
	"testing"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

func TestGrade(t *testing.T) {
	questions := []store.Question{
		{QuestionID: 1, Marks: 5, CorrectAnswer: 0},
		{QuestionID: 2, Marks: 3, CorrectAnswer: 1},
	}

	tests := []struct {
		name    string
		answers map[int]int
		want    GradeResult
	}{
		{
			name:    "partial credit",
			answers: map[int]int{1: 0, 2: 2},
			want:    GradeResult{Score: 5, TotalMarks: 8, Percentage: 62},
		},
		{
			name:    "all correct",
			answers: map[int]int{1: 0, 2: 1},
			want:    GradeResult{Score: 8, TotalMarks: 8, Percentage: 100},
		},
		{
			name:    "empty submission still counts total marks",
			answers: map[int]int{},
			want:    GradeResult{Score: 0, TotalMarks: 8, Percentage: 0},
		},
		{
			name:    "nil answers",
			answers: nil,
			want:    GradeResult{Score: 0, TotalMarks: 8, Percentage: 0},
		},
		{
			name:    "answers for unknown questions are ignored",
			answers: map[int]int{99: 0},
			want:    GradeResult{Score: 0, TotalMarks: 8, Percentage: 0},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(questions, tc.answers)
			if got != tc.want {
				t.Fatalf("Grade = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestGradeNoQuestions(t *testing.T) {
	got := Grade(nil, map[int]int{1: 0})
	if got != (GradeResult{}) {
		t.Fatalf("Grade = %+v, want zero result", got)
	}
}

func TestGradePercentageFloors(t *testing.T) {
	questions := []store.Question{
		{QuestionID: 1, Marks: 1, CorrectAnswer: 0},
		{QuestionID: 2, Marks: 1, CorrectAnswer: 0},
		{QuestionID: 3, Marks: 1, CorrectAnswer: 0},
	}
	got := Grade(questions, map[int]int{1: 0})
	if got.Percentage != 33 {
		t.Fatalf("percentage = %d, want 33", got.Percentage)
	}
}
