package exam

import "github.com/SoressaKumela/Digital-Examination-System/internal/store"

// GradeResult is the outcome of scoring one submission.
type GradeResult struct {
	Score      int
	TotalMarks int
	Percentage int
}

// Grade scores a submission against the exam's own questions. Every listed
// question contributes its marks to the total whether or not it was
// answered; only an answer matching the correct option earns marks. The
// percentage is floored integer division, 0 when the exam carries no marks.
func Grade(questions []store.Question, answers map[int]int) GradeResult {
	var res GradeResult
	for _, q := range questions {
		res.TotalMarks += q.Marks
		if picked, ok := answers[q.QuestionID]; ok && picked == q.CorrectAnswer {
			res.Score += q.Marks
		}
	}
	if res.TotalMarks > 0 {
		res.Percentage = res.Score * 100 / res.TotalMarks
	}
	return res
}
