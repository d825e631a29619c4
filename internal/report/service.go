package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

var ErrExamNotFound = errors.New("exam not found")

// Service aggregates recorded results into per-exam summaries.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

type ExamSummary struct {
	ExamID            int     `json:"examId"`
	ExamTitle         string  `json:"examTitle"`
	Participants      int     `json:"participants"`
	AveragePercentage float64 `json:"averagePercentage"`
	HighestScore      int     `json:"highestScore"`
	LowestScore       int     `json:"lowestScore"`
	TotalMarks        int     `json:"totalMarks"`
}

// SummaryByExam folds every recorded result of one exam into a summary.
// An exam without results yields zero scores and zero participants.
func (s *Service) SummaryByExam(ctx context.Context, examID int) (*ExamSummary, error) {
	exam, err := s.store.FindExamByID(ctx, examID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("find exam: %w", err)
	}

	results, err := s.store.FindResultsByExamID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("find results: %w", err)
	}

	summary := &ExamSummary{
		ExamID:     exam.ExamID,
		ExamTitle:  exam.Title,
		TotalMarks: exam.TotalMarks,
	}
	if len(results) == 0 {
		return summary, nil
	}

	summary.Participants = len(results)
	summary.HighestScore = results[0].Score
	summary.LowestScore = results[0].Score
	sum := 0
	for _, res := range results {
		sum += res.Percentage
		if res.Score > summary.HighestScore {
			summary.HighestScore = res.Score
		}
		if res.Score < summary.LowestScore {
			summary.LowestScore = res.Score
		}
	}
	summary.AveragePercentage = float64(sum) / float64(len(results))
	return summary, nil
}
