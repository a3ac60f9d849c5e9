package selection

import (
	"fmt"
	"testing"

	"exam-service/internal/models"
)

func bank(categories map[string]int) []models.Question {
	var out []models.Question
	for category, n := range categories {
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("%s-%d", category, i)
			out = append(out, models.Question{
				ID:       id,
				Text:     "text-" + id,
				Category: category,
				Options:  []models.Option{{Text: "a", IsCorrect: true}, {Text: "b"}},
			})
		}
	}
	return out
}

func TestSeededSamplerIsDeterministic(t *testing.T) {
	questions := bank(map[string]int{"signs": 50, "rules": 50})

	a := NewSeededSampler(42).Any(questions, nil, 10)
	b := NewSeededSampler(42).Any(questions, nil, 10)

	if len(a) != 10 || len(b) != 10 {
		t.Fatalf("expected 10 picks, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed diverged at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestExcludingSkipsCategory(t *testing.T) {
	questions := bank(map[string]int{"signs": 20, "rules": 20})
	s := NewSeededSampler(1)

	picked := s.Excluding(questions, "signs", nil, 5)
	if len(picked) != 5 {
		t.Fatalf("expected 5 picks, got %d", len(picked))
	}
	for _, q := range picked {
		if q.Category == "signs" {
			t.Errorf("picked %s from excluded category", q.ID)
		}
	}
}

func TestExclusionSetRespected(t *testing.T) {
	questions := bank(map[string]int{"signs": 10})
	exclude := map[string]struct{}{}
	for i := 0; i < 8; i++ {
		exclude[fmt.Sprintf("signs-%d", i)] = struct{}{}
	}

	picked := NewSeededSampler(7).Any(questions, exclude, 5)
	if len(picked) != 2 {
		t.Fatalf("expected 2 remaining questions, got %d", len(picked))
	}
	for _, q := range picked {
		if _, used := exclude[q.ID]; used {
			t.Errorf("picked excluded question %s", q.ID)
		}
	}
}

func TestNoDuplicatePicks(t *testing.T) {
	questions := bank(map[string]int{"signs": 30})
	picked := NewSeededSampler(9).Any(questions, nil, 20)

	seen := map[string]struct{}{}
	for _, q := range picked {
		if _, dup := seen[q.ID]; dup {
			t.Fatalf("question %s picked twice", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
}

func TestDuplicateTextsCountOnce(t *testing.T) {
	// The same question text repeated across tickets under different ids.
	questions := []models.Question{
		{ID: "a", Text: "shared", Category: "signs"},
		{ID: "b", Text: "shared", Category: "signs"},
		{ID: "c", Text: "unique", Category: "signs"},
	}

	picked := NewSeededSampler(3).Any(questions, nil, 10)
	if len(picked) != 2 {
		t.Fatalf("expected 2 distinct texts, got %d", len(picked))
	}
}

func TestShortPoolReturnsEverything(t *testing.T) {
	questions := bank(map[string]int{"signs": 3})
	picked := NewSeededSampler(5).Any(questions, nil, 10)
	if len(picked) != 3 {
		t.Fatalf("expected the whole pool, got %d", len(picked))
	}
}

func TestZeroCountReturnsNothing(t *testing.T) {
	questions := bank(map[string]int{"signs": 3})
	if picked := NewSeededSampler(5).Any(questions, nil, 0); len(picked) != 0 {
		t.Fatalf("expected no picks, got %d", len(picked))
	}
}
