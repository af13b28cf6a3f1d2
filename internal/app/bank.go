package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"animation-quiz/internal/domain"
)

// Sampler draws the questions for one attempt.
type Sampler interface {
	Sample(ctx context.Context, n int) ([]domain.Question, error)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Shuffler wraps a random source so it can be shared between players.
type Shuffler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewShuffler(rnd *rand.Rand) *Shuffler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Shuffler{rnd: rnd}
}

// Sample returns n distinct questions: a Fisher-Yates permutation of a copy of
// questions, truncated to n.
func (s *Shuffler) Sample(questions []domain.Question, n int) ([]domain.Question, error) {
	if n < 0 || n > len(questions) {
		return nil, fmt.Errorf("%w: requested %d, bank has %d", domain.ErrInvalidSampleSize, n, len(questions))
	}

	shuffled := make([]domain.Question, len(questions))
	copy(shuffled, questions)

	s.mu.Lock()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.mu.Unlock()

	return shuffled[:n:n], nil
}

// QuestionBank samples from a fixed in-memory set of questions.
type QuestionBank struct {
	questions []domain.Question
	shuffler  *Shuffler
}

func NewQuestionBank(questions []domain.Question, shuffler *Shuffler) *QuestionBank {
	if shuffler == nil {
		shuffler = NewShuffler(nil)
	}
	return &QuestionBank{questions: questions, shuffler: shuffler}
}

func (b *QuestionBank) Size() int { return len(b.questions) }

func (b *QuestionBank) Sample(_ context.Context, n int) ([]domain.Question, error) {
	return b.shuffler.Sample(b.questions, n)
}

// RepositoryBank loads the bank through a repository on every sample, so cache
// refreshes are picked up by the next attempt.
type RepositoryBank struct {
	repo     BankRepository
	bankID   string
	shuffler *Shuffler
}

func NewRepositoryBank(repo BankRepository, bankID string, shuffler *Shuffler) *RepositoryBank {
	if shuffler == nil {
		shuffler = NewShuffler(nil)
	}
	return &RepositoryBank{repo: repo, bankID: bankID, shuffler: shuffler}
}

func (b *RepositoryBank) Sample(ctx context.Context, n int) ([]domain.Question, error) {
	bank, err := b.repo.GetBank(ctx, b.bankID)
	if err != nil {
		return nil, fmt.Errorf("load bank %q: %w", b.bankID, err)
	}
	return b.shuffler.Sample(bank.Questions, n)
}
