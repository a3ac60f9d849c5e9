package models

// Option is a single answer choice. Correctness is kept server-side only and
// never serialized to clients before grading.
type Option struct {
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"-"`
}

// Question is an immutable snapshot of one multiple-choice question. Sessions
// embed value copies so later edits to the question bank cannot alter an
// in-progress exam.
type Question struct {
	ID             string   `bson:"_id,omitempty" json:"id"`
	Text           string   `bson:"text" json:"text"`
	Options        []Option `bson:"options" json:"options"`
	Hint           string   `bson:"hint,omitempty" json:"hint,omitempty"`
	ImageURL       string   `bson:"image_url,omitempty" json:"image_url,omitempty"`
	VideoURL       string   `bson:"video_url,omitempty" json:"video_url,omitempty"`
	Category       string   `bson:"category" json:"category"`
	QuestionNumber int      `bson:"question_number" json:"question_number"`
}

// CorrectIndex returns the index of the correct option, or -1 when the
// question has none.
func (q *Question) CorrectIndex() int {
	for i, opt := range q.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}

// CorrectOptionText returns the text of the correct option, or "" when the
// question has none.
func (q *Question) CorrectOptionText() string {
	if i := q.CorrectIndex(); i >= 0 {
		return q.Options[i].Text
	}
	return ""
}

// Ticket is a fixed, numbered bundle of questions forming one standard exam.
type Ticket struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	Number    int        `bson:"number" json:"number"`
	Questions []Question `bson:"questions" json:"questions"`
	VideoURL  string     `bson:"video_url,omitempty" json:"video_url,omitempty"`
}
