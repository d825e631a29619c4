package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLStore implements Store over database/sql. It runs against Postgres
// (pgx stdlib driver) or SQLite (modernc driver); the DDL and the $n
// placeholders are accepted by both.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// Migrate applies the idempotent schema. The unique constraints on the
// external identifier columns and on users.email are what make sequence
// allocation and registration safe under concurrent load.
func (s *SQLStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			question_id INTEGER PRIMARY KEY,
			question_text TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_answer INTEGER NOT NULL,
			subject TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			marks INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS exams (
			exam_id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			subject TEXT NOT NULL,
			duration INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			total_marks INTEGER NOT NULL,
			status TEXT NOT NULL,
			scheduled_at TEXT NOT NULL,
			created_by TEXT NOT NULL,
			question_ids_json TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			result_id INTEGER PRIMARY KEY,
			exam_id INTEGER NOT NULL,
			exam_title TEXT NOT NULL,
			student_id INTEGER NOT NULL,
			student_name TEXT NOT NULL,
			student_email TEXT NOT NULL,
			score INTEGER NOT NULL,
			total_marks INTEGER NOT NULL,
			percentage INTEGER NOT NULL,
			submitted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_exam ON results (exam_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_student ON results (student_id)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var sequenceColumns = map[string][2]string{
	CollectionUsers:     {"users", "user_id"},
	CollectionQuestions: {"questions", "question_id"},
	CollectionExams:     {"exams", "exam_id"},
	CollectionResults:   {"results", "result_id"},
}

func (s *SQLStore) NextID(ctx context.Context, collection string) (int, error) {
	tc, ok := sequenceColumns[collection]
	if !ok {
		return 0, fmt.Errorf("next id: unknown collection %q", collection)
	}
	var next int
	q := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) + 1 FROM %s`, tc[1], tc[0])
	if err := s.db.QueryRowContext(ctx, q).Scan(&next); err != nil {
		return 0, fmt.Errorf("next id for %s: %w", collection, err)
	}
	return next, nil
}

func (s *SQLStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`, email))
}

func (s *SQLStore) FindUserByID(ctx context.Context, userID int) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, password_hash, role, created_at
		FROM users
		WHERE user_id = $1
	`, userID))
}

func (s *SQLStore) scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.UserID, &u.FullName, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, full_name, email, password_hash, role, created_at
		FROM users
		ORDER BY user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.UserID, &u.FullName, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (s *SQLStore) InsertUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, full_name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.UserID, u.FullName, u.Email, u.Password, u.Role, u.CreatedAt)
	if err != nil {
		return s.classifyInsertErr("insert user", err)
	}
	return nil
}

func (s *SQLStore) UpdateUser(ctx context.Context, u User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET full_name = $2,
			email = $3,
			password_hash = $4,
			role = $5
		WHERE user_id = $1
	`, u.UserID, u.FullName, u.Email, u.Password, u.Role)
	if err != nil {
		return s.classifyInsertErr("update user", err)
	}
	return requireAffected(res, "update user")
}

func (s *SQLStore) DeleteUser(ctx context.Context, userID int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, "delete user")
}

func (s *SQLStore) FindQuestionByID(ctx context.Context, questionID int) (*Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT question_id, question_text, options_json, correct_answer, subject, difficulty, marks
		FROM questions
		WHERE question_id = $1
	`, questionID)

	q, err := scanQuestion(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *SQLStore) FindQuestionsByIDs(ctx context.Context, questionIDs []int) ([]Question, error) {
	if len(questionIDs) == 0 {
		return []Question{}, nil
	}
	byID := make(map[int]Question, len(questionIDs))
	all, err := s.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	for _, q := range all {
		byID[q.QuestionID] = q
	}
	out := make([]Question, 0, len(questionIDs))
	for _, id := range questionIDs {
		if q, ok := byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, question_text, options_json, correct_answer, subject, difficulty, marks
		FROM questions
		ORDER BY question_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := make([]Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

func scanQuestion(scan func(...any) error) (*Question, error) {
	var q Question
	var optionsJSON string
	if err := scan(&q.QuestionID, &q.QuestionText, &optionsJSON, &q.CorrectAnswer, &q.Subject, &q.Difficulty, &q.Marks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, fmt.Errorf("decode options json: %w", err)
	}
	return &q, nil
}

func (s *SQLStore) InsertQuestion(ctx context.Context, q Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options json: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (question_id, question_text, options_json, correct_answer, subject, difficulty, marks)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, q.QuestionID, q.QuestionText, string(optionsJSON), q.CorrectAnswer, q.Subject, q.Difficulty, q.Marks)
	if err != nil {
		return s.classifyInsertErr("insert question", err)
	}
	return nil
}

func (s *SQLStore) UpdateQuestion(ctx context.Context, q Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encode options json: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE questions
		SET question_text = $2,
			options_json = $3,
			correct_answer = $4,
			subject = $5,
			difficulty = $6,
			marks = $7
		WHERE question_id = $1
	`, q.QuestionID, q.QuestionText, string(optionsJSON), q.CorrectAnswer, q.Subject, q.Difficulty, q.Marks)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	return requireAffected(res, "update question")
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, questionID int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE question_id = $1`, questionID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return requireAffected(res, "delete question")
}

func (s *SQLStore) FindExamByID(ctx context.Context, examID int) (*Exam, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT exam_id, title, subject, duration, total_questions, total_marks, status, scheduled_at, created_by, question_ids_json
		FROM exams
		WHERE exam_id = $1
	`, examID)

	e, err := scanExam(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT exam_id, title, subject, duration, total_questions, total_marks, status, scheduled_at, created_by, question_ids_json
		FROM exams
		ORDER BY exam_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	out := make([]Exam, 0)
	for rows.Next() {
		e, err := scanExam(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exams: %w", err)
	}
	return out, nil
}

func scanExam(scan func(...any) error) (*Exam, error) {
	var e Exam
	var idsJSON string
	if err := scan(&e.ExamID, &e.Title, &e.Subject, &e.Duration, &e.TotalQuestions, &e.TotalMarks, &e.Status, &e.ScheduledAt, &e.CreatedBy, &idsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scan exam: %w", err)
	}
	if err := json.Unmarshal([]byte(idsJSON), &e.QuestionIDs); err != nil {
		return nil, fmt.Errorf("decode question ids json: %w", err)
	}
	return &e, nil
}

func (s *SQLStore) InsertExam(ctx context.Context, e Exam) error {
	if e.QuestionIDs == nil {
		e.QuestionIDs = []int{}
	}
	idsJSON, err := json.Marshal(e.QuestionIDs)
	if err != nil {
		return fmt.Errorf("encode question ids json: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exams (exam_id, title, subject, duration, total_questions, total_marks, status, scheduled_at, created_by, question_ids_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, e.ExamID, e.Title, e.Subject, e.Duration, e.TotalQuestions, e.TotalMarks, e.Status, e.ScheduledAt, e.CreatedBy, string(idsJSON))
	if err != nil {
		return s.classifyInsertErr("insert exam", err)
	}
	return nil
}

func (s *SQLStore) FindResultByID(ctx context.Context, resultID int) (*ExamResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT result_id, exam_id, exam_title, student_id, student_name, student_email, score, total_marks, percentage, submitted_at
		FROM results
		WHERE result_id = $1
	`, resultID)

	var r ExamResult
	if err := row.Scan(&r.ResultID, &r.ExamID, &r.ExamTitle, &r.StudentID, &r.StudentName, &r.StudentEmail, &r.Score, &r.TotalMarks, &r.Percentage, &r.SubmittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan result: %w", err)
	}
	return &r, nil
}

func (s *SQLStore) FindResultsByExamID(ctx context.Context, examID int) ([]ExamResult, error) {
	return s.queryResults(ctx, `WHERE exam_id = $1`, examID)
}

func (s *SQLStore) FindResultsByStudentID(ctx context.Context, studentID int) ([]ExamResult, error) {
	return s.queryResults(ctx, `WHERE student_id = $1`, studentID)
}

func (s *SQLStore) queryResults(ctx context.Context, where string, arg any) ([]ExamResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT result_id, exam_id, exam_title, student_id, student_name, student_email, score, total_marks, percentage, submitted_at
		FROM results
		`+where+`
		ORDER BY result_id
	`, arg)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	out := make([]ExamResult, 0)
	for rows.Next() {
		var r ExamResult
		if err := rows.Scan(&r.ResultID, &r.ExamID, &r.ExamTitle, &r.StudentID, &r.StudentName, &r.StudentEmail, &r.Score, &r.TotalMarks, &r.Percentage, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func (s *SQLStore) FindExamIDsByStudentID(ctx context.Context, studentID int) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT exam_id
		FROM results
		WHERE student_id = $1
		ORDER BY result_id
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("query taken exam ids: %w", err)
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan exam id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exam ids: %w", err)
	}
	return out, nil
}

func (s *SQLStore) InsertResult(ctx context.Context, r ExamResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (result_id, exam_id, exam_title, student_id, student_name, student_email, score, total_marks, percentage, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.ResultID, r.ExamID, r.ExamTitle, r.StudentID, r.StudentName, r.StudentEmail, r.Score, r.TotalMarks, r.Percentage, r.SubmittedAt)
	if err != nil {
		return s.classifyInsertErr("insert result", err)
	}
	return nil
}

// classifyInsertErr translates a unique-violation from the configured
// driver into the store's conflict errors so callers can branch with
// errors.Is. Anything else is wrapped and propagated.
func (s *SQLStore) classifyInsertErr(op string, err error) error {
	switch s.driver {
	case "postgres":
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return ErrDuplicateEmail
			}
			return ErrDuplicateID
		}
	case "sqlite":
		// modernc sqlite reports constraint failures in the message text.
		msg := err.Error()
		if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed") {
			if strings.Contains(msg, "email") {
				return ErrDuplicateEmail
			}
			return ErrDuplicateID
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
