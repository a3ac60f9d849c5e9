package selection

import (
	"math/rand"
	"time"

	"exam-service/internal/models"
)

// Sampler draws questions uniformly without replacement. Exclusion is an
// explicit id set so the policy stays testable; tests seed the generator.
type Sampler struct {
	rand *rand.Rand
}

// NewSampler creates a sampler seeded from the wall clock.
func NewSampler() *Sampler {
	return NewSeededSampler(time.Now().UnixNano())
}

// NewSeededSampler creates a deterministic sampler for tests.
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rand: rand.New(rand.NewSource(seed))}
}

// Excluding samples up to n questions from any category other than the given
// one, skipping excluded ids. Duplicate question texts across tickets count
// once.
func (s *Sampler) Excluding(questions []models.Question, category string, exclude map[string]struct{}, n int) []models.Question {
	return s.sample(questions, exclude, n, func(q *models.Question) bool {
		return q.Category != category
	})
}

// Any samples up to n questions regardless of category.
func (s *Sampler) Any(questions []models.Question, exclude map[string]struct{}, n int) []models.Question {
	return s.sample(questions, exclude, n, func(q *models.Question) bool { return true })
}

// Intn exposes the underlying generator for callers that need a single draw,
// such as random ticket selection.
func (s *Sampler) Intn(n int) int { return s.rand.Intn(n) }

func (s *Sampler) sample(questions []models.Question, exclude map[string]struct{}, n int, match func(*models.Question) bool) []models.Question {
	if n <= 0 {
		return nil
	}

	seenTexts := make(map[string]struct{})
	candidates := make([]models.Question, 0)
	for i := range questions {
		q := &questions[i]
		if !match(q) {
			continue
		}
		if _, used := exclude[q.ID]; used {
			continue
		}
		// The same question text appears in several tickets; one copy is
		// enough per batch.
		if _, seen := seenTexts[q.Text]; seen {
			continue
		}
		seenTexts[q.Text] = struct{}{}
		candidates = append(candidates, *q)
	}

	if len(candidates) <= n {
		s.rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		return candidates
	}

	// Partial Fisher-Yates: the first n positions end up a uniform sample.
	for i := 0; i < n; i++ {
		j := i + s.rand.Intn(len(candidates)-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}
	return candidates[:n]
}
