package store

// Role values carried on User records and token claims.
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

// Exam status values. The stored value is the base state; the student view
// overlays COMPLETED per viewer without touching the record.
const (
	ExamUpcoming  = "UPCOMING"
	ExamOngoing   = "ONGOING"
	ExamCompleted = "COMPLETED"
)

// Difficulty values accepted on questions.
const (
	DifficultyEasy   = "EASY"
	DifficultyMedium = "MEDIUM"
	DifficultyHard   = "HARD"
)

// HiddenAnswer replaces Question.CorrectAnswer before question data leaves
// the grading boundary.
const HiddenAnswer = -1

// User is an account record. Password holds the bcrypt hash at rest and is
// cleared before the record is written to any response.
type User struct {
	UserID    int    `json:"userId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Question is a single-best-answer item. CorrectAnswer is an index into
// Options, or HiddenAnswer when redacted.
type Question struct {
	QuestionID    int      `json:"questionId"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Subject       string   `json:"subject"`
	Difficulty    string   `json:"difficulty"`
	Marks         int      `json:"marks"`
}

// Exam groups questions under a schedule. An empty QuestionIDs means the
// whole question bank applies.
type Exam struct {
	ExamID         int    `json:"examId"`
	Title          string `json:"title"`
	Subject        string `json:"subject"`
	Duration       int    `json:"duration"`
	TotalQuestions int    `json:"totalQuestions"`
	TotalMarks     int    `json:"totalMarks"`
	Status         string `json:"status"`
	ScheduledAt    string `json:"scheduledAt"`
	CreatedBy      string `json:"createdBy"`
	QuestionIDs    []int  `json:"questionIds"`
}

// ExamResult is immutable once written. ExamTitle, StudentName and
// StudentEmail are snapshots taken at submission time so later edits to the
// exam or user never rewrite history.
type ExamResult struct {
	ResultID     int    `json:"resultId"`
	ExamID       int    `json:"examId"`
	ExamTitle    string `json:"examTitle"`
	StudentID    int    `json:"studentId"`
	StudentName  string `json:"studentName"`
	StudentEmail string `json:"studentEmail"`
	Score        int    `json:"score"`
	TotalMarks   int    `json:"totalMarks"`
	Percentage   int    `json:"percentage"`
	SubmittedAt  string `json:"submittedAt"`
}

// ValidRole reports whether role is one of the three platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ValidDifficulty reports whether d is an accepted difficulty level.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}
