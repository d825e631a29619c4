// Package store is the persistence boundary for the examination platform.
// It exposes one interface per record type plus sequence allocation, with a
// SQL implementation for serving and an in-memory one for tests.
package store

import (
	"context"
	"errors"
)

// Collection names used by NextID.
const (
	CollectionUsers     = "users"
	CollectionQuestions = "questions"
	CollectionExams     = "exams"
	CollectionResults   = "results"
)

var (
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an insert would violate the
	// uniqueness of users.email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateID is returned when an insert collides on an external
	// numeric identifier. Callers re-allocate and retry.
	ErrDuplicateID = errors.New("identifier already allocated")
)

// Sequencer derives the next external identifier for a collection:
// max stored id + 1, or 1 when the collection is empty. The value is only
// reserved once the subsequent insert succeeds; concurrent creators are
// serialized by the unique index on the identifier column, surfacing as
// ErrDuplicateID.
type Sequencer interface {
	NextID(ctx context.Context, collection string) (int, error)
}

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, userID int) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	InsertUser(ctx context.Context, u User) error
	UpdateUser(ctx context.Context, u User) error
	DeleteUser(ctx context.Context, userID int) error
}

type QuestionStore interface {
	FindQuestionByID(ctx context.Context, questionID int) (*Question, error)
	FindQuestionsByIDs(ctx context.Context, questionIDs []int) ([]Question, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	InsertQuestion(ctx context.Context, q Question) error
	UpdateQuestion(ctx context.Context, q Question) error
	DeleteQuestion(ctx context.Context, questionID int) error
}

type ExamStore interface {
	FindExamByID(ctx context.Context, examID int) (*Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)
	InsertExam(ctx context.Context, e Exam) error
}

type ResultStore interface {
	FindResultByID(ctx context.Context, resultID int) (*ExamResult, error)
	FindResultsByExamID(ctx context.Context, examID int) ([]ExamResult, error)
	FindResultsByStudentID(ctx context.Context, studentID int) ([]ExamResult, error)
	FindExamIDsByStudentID(ctx context.Context, studentID int) ([]int, error)
	InsertResult(ctx context.Context, r ExamResult) error
}

// Store is the full identity store adapter.
type Store interface {
	Sequencer
	UserStore
	QuestionStore
	ExamStore
	ResultStore
}
