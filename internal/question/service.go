package question

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SoressaKumela/Digital-Examination-System/internal/store"
)

var (
	ErrNotFound     = errors.New("question not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Service manages the question bank.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

type Input struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Subject       string   `json:"subject"`
	Difficulty    string   `json:"difficulty"`
	Marks         int      `json:"marks"`
}

func validate(in Input) error {
	if strings.TrimSpace(in.QuestionText) == "" {
		return fmt.Errorf("%w: questionText is required", ErrInvalidInput)
	}
	if len(in.Options) < 2 {
		return fmt.Errorf("%w: at least two options are required", ErrInvalidInput)
	}
	if in.CorrectAnswer != store.HiddenAnswer && (in.CorrectAnswer < 0 || in.CorrectAnswer >= len(in.Options)) {
		return fmt.Errorf("%w: correctAnswer out of range", ErrInvalidInput)
	}
	if in.Marks <= 0 {
		return fmt.Errorf("%w: marks must be positive", ErrInvalidInput)
	}
	if in.Difficulty != "" && !store.ValidDifficulty(in.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, in.Difficulty)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]store.Question, error) {
	questions, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*store.Question, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	q := &store.Question{
		QuestionText:  strings.TrimSpace(in.QuestionText),
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Subject:       in.Subject,
		Difficulty:    in.Difficulty,
		Marks:         in.Marks,
	}

	id, err := store.CreateWithID(ctx, s.store, store.CollectionQuestions, func(id int) error {
		q.QuestionID = id
		return s.store.InsertQuestion(ctx, *q)
	})
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	q.QuestionID = id
	return q, nil
}

func (s *Service) Update(ctx context.Context, questionID int, in Input) (*store.Question, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	q := &store.Question{
		QuestionID:    questionID,
		QuestionText:  strings.TrimSpace(in.QuestionText),
		Options:       in.Options,
		CorrectAnswer: in.CorrectAnswer,
		Subject:       in.Subject,
		Difficulty:    in.Difficulty,
		Marks:         in.Marks,
	}
	if err := s.store.UpdateQuestion(ctx, *q); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

func (s *Service) Delete(ctx context.Context, questionID int) error {
	if err := s.store.DeleteQuestion(ctx, questionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}
