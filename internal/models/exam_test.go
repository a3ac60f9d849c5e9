package models

import (
	"testing"
)

func option(correct bool) Option {
	return Option{Text: "opt", IsCorrect: correct}
}

func TestCorrectIndex(t *testing.T) {
	testCases := []struct {
		name     string
		options  []Option
		expected int
	}{
		{"first correct", []Option{option(true), option(false)}, 0},
		{"last correct", []Option{option(false), option(false), option(true)}, 2},
		{"no correct", []Option{option(false), option(false)}, -1},
		{"no options", nil, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q := &Question{Options: tc.options}
			if got := q.CorrectIndex(); got != tc.expected {
				t.Errorf("Expected index %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestExamSlotResolution(t *testing.T) {
	exam := &Exam{
		Questions:      []AnswerSlot{{Question: Question{ID: "q0"}}, {Question: Question{ID: "q1"}}},
		ExtraQuestions: []AnswerSlot{{Question: Question{ID: "e0"}}},
	}

	testCases := []struct {
		index    int
		ok       bool
		expected string
	}{
		{0, true, "q0"},
		{1, true, "q1"},
		{2, true, "e0"},
		{3, false, ""},
		{-1, false, ""},
	}

	for _, tc := range testCases {
		slot, ok := exam.Slot(tc.index)
		if ok != tc.ok {
			t.Errorf("index %d: expected ok=%v, got %v", tc.index, tc.ok, ok)
			continue
		}
		if ok && slot.Question.ID != tc.expected {
			t.Errorf("index %d: expected %s, got %s", tc.index, tc.expected, slot.Question.ID)
		}
	}

	if exam.SlotCount() != 3 {
		t.Errorf("Expected slot count 3, got %d", exam.SlotCount())
	}
}

func TestExamAllAnswered(t *testing.T) {
	answer := 0
	exam := &Exam{
		Questions:      []AnswerSlot{{UserAnswer: &answer}},
		ExtraQuestions: []AnswerSlot{{}},
	}
	if exam.AllAnswered() {
		t.Error("unanswered extra slot should block AllAnswered")
	}

	exam.ExtraQuestions[0].UserAnswer = &answer
	if !exam.AllAnswered() {
		t.Error("expected AllAnswered with every slot filled")
	}
}

func TestUsedQuestionIDs(t *testing.T) {
	exam := &Exam{
		Questions:      []AnswerSlot{{Question: Question{ID: "q0"}}},
		ExtraQuestions: []AnswerSlot{{Question: Question{ID: "e0"}}},
	}
	used := exam.UsedQuestionIDs()
	if len(used) != 2 {
		t.Fatalf("Expected 2 ids, got %d", len(used))
	}
	for _, id := range []string{"q0", "e0"} {
		if _, ok := used[id]; !ok {
			t.Errorf("missing id %s", id)
		}
	}
}

func TestTicketProgressFor(t *testing.T) {
	user := &User{}
	now := user.CreatedAt

	p := user.TicketProgressFor(3, 20, now)
	if p.TicketNumber != 3 || p.TotalQuestions != 20 {
		t.Errorf("bad fresh progress: %+v", p)
	}
	p.Mistakes = 2

	again := user.TicketProgressFor(3, 20, now)
	if again.Mistakes != 2 {
		t.Error("expected the same progress record on second lookup")
	}
	if len(user.TicketsProgress) != 1 {
		t.Errorf("Expected 1 progress record, got %d", len(user.TicketsProgress))
	}
}
