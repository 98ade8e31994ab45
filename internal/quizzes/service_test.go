package quizzes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

type mockRepository struct {
	quizzes   map[int64]*Quiz
	questions map[int64][]Question
	attempts  map[int64][]Attempt
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		quizzes:   make(map[int64]*Quiz),
		questions: make(map[int64][]Question),
		attempts:  make(map[int64][]Attempt),
		nextID:    1,
	}
}

func (m *mockRepository) ListByCourse(_ context.Context, courseID int64) ([]Quiz, error) {
	var list []Quiz
	for _, q := range m.quizzes {
		if q.CourseID == courseID {
			list = append(list, *q)
		}
	}
	return list, nil
}

func (m *mockRepository) Get(_ context.Context, courseID, quizID int64) (*Quiz, error) {
	q, ok := m.quizzes[quizID]
	if !ok || q.CourseID != courseID {
		return nil, shared.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *mockRepository) Create(_ context.Context, q *Quiz) error {
	q.ID = m.nextID
	m.nextID++
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	cp := *q
	m.quizzes[q.ID] = &cp
	return nil
}

func (m *mockRepository) AddQuestion(_ context.Context, qu *Question) error {
	qu.ID = m.nextID
	m.nextID++
	m.questions[qu.QuizID] = append(m.questions[qu.QuizID], *qu)
	return nil
}

func (m *mockRepository) ListQuestions(_ context.Context, quizID int64) ([]Question, error) {
	out := make([]Question, len(m.questions[quizID]))
	copy(out, m.questions[quizID])
	return out, nil
}

func (m *mockRepository) CreateAttempt(_ context.Context, a *Attempt) error {
	a.ID = m.nextID
	m.nextID++
	a.SubmittedAt = time.Now()
	m.attempts[a.QuizID] = append(m.attempts[a.QuizID], *a)
	return nil
}

func (m *mockRepository) ListAttempts(_ context.Context, quizID int64) ([]Attempt, error) {
	return m.attempts[quizID], nil
}

func (m *mockRepository) ListUserAttempts(_ context.Context, quizID, userID int64) ([]Attempt, error) {
	var list []Attempt
	for _, a := range m.attempts[quizID] {
		if a.UserID == userID {
			list = append(list, a)
		}
	}
	return list, nil
}

var _ Repository = (*mockRepository)(nil)

func seedQuiz(t *testing.T, svc *Service) *Quiz {
	t.Helper()
	ctx := context.Background()

	quiz, err := svc.Create(ctx, 10, CreateQuizRequest{Title: "Checkpoint", PassScore: 60})
	require.NoError(t, err)

	questionSet := []AddQuestionRequest{
		{Prompt: "1+1?", Options: []string{"1", "2", "3"}, Answer: 1},
		{Prompt: "2+2?", Options: []string{"4", "5"}, Answer: 0},
		{Prompt: "3+3?", Options: []string{"5", "6"}, Answer: 1},
	}
	for _, q := range questionSet {
		_, err := svc.AddQuestion(ctx, 10, quiz.ID, q)
		require.NoError(t, err)
	}
	return quiz
}

func TestGetStripsAnswerKeyForStudents(t *testing.T) {
	svc := NewService(newMockRepository())
	quiz := seedQuiz(t, svc)
	ctx := context.Background()

	_, questions, err := svc.Get(ctx, 10, quiz.ID, false)
	require.NoError(t, err)
	for _, q := range questions {
		assert.Zero(t, q.Answer)
	}

	_, questions, err = svc.Get(ctx, 10, quiz.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, questions[0].Answer)
}

func TestGetScopedToCourse(t *testing.T) {
	svc := NewService(newMockRepository())
	quiz := seedQuiz(t, svc)

	_, _, err := svc.Get(context.Background(), 99, quiz.ID, true)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAddQuestionValidatesAnswerIndex(t *testing.T) {
	svc := NewService(newMockRepository())
	quiz := seedQuiz(t, svc)
	ctx := context.Background()

	_, err := svc.AddQuestion(ctx, 10, quiz.ID, AddQuestionRequest{
		Prompt: "bad", Options: []string{"a", "b"}, Answer: 2,
	})
	assert.ErrorIs(t, err, ErrBadAnswerIndex)

	_, err = svc.AddQuestion(ctx, 10, quiz.ID, AddQuestionRequest{
		Prompt: "bad", Options: []string{"a", "b"}, Answer: -1,
	})
	assert.ErrorIs(t, err, ErrBadAnswerIndex)
}

func TestSubmitAttemptGrades(t *testing.T) {
	svc := NewService(newMockRepository())
	quiz := seedQuiz(t, svc)
	ctx := context.Background()

	attempt, err := svc.SubmitAttempt(ctx, 10, quiz.ID, 3, SubmitAttemptRequest{Answers: []int{1, 0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 100, attempt.Score)
	assert.True(t, attempt.Passed)

	attempt, err = svc.SubmitAttempt(ctx, 10, quiz.ID, 3, SubmitAttemptRequest{Answers: []int{1, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, 66, attempt.Score)
	assert.True(t, attempt.Passed)

	attempt, err = svc.SubmitAttempt(ctx, 10, quiz.ID, 3, SubmitAttemptRequest{Answers: []int{0, 1, 0}})
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.False(t, attempt.Passed)
}

func TestSubmitAttemptAnswerCountMismatch(t *testing.T) {
	svc := NewService(newMockRepository())
	quiz := seedQuiz(t, svc)

	_, err := svc.SubmitAttempt(context.Background(), 10, quiz.ID, 3, SubmitAttemptRequest{Answers: []int{1}})
	assert.ErrorIs(t, err, ErrAnswerCount)
}

func TestUserAttemptsFiltersByUser(t *testing.T) {
	svc := NewService(newMockRepository())
	quiz := seedQuiz(t, svc)
	ctx := context.Background()

	_, err := svc.SubmitAttempt(ctx, 10, quiz.ID, 3, SubmitAttemptRequest{Answers: []int{1, 0, 1}})
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(ctx, 10, quiz.ID, 4, SubmitAttemptRequest{Answers: []int{0, 0, 0}})
	require.NoError(t, err)

	mine, err := svc.UserAttempts(ctx, 10, quiz.ID, 3)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.Attempts(ctx, 10, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
