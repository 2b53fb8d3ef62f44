package quiz

// ChoiceView is a choice with its display status.
type ChoiceView struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Status ChoiceStatus `json:"status"`
}

// View is a display snapshot of a session.
type View struct {
	State            string       `json:"state"`
	Mode             string       `json:"mode"`
	Round            int          `json:"round"` // zero-based
	TotalRounds      int          `json:"total_rounds"`
	Score            int          `json:"score"`
	Prompt           string       `json:"prompt,omitempty"`
	Choices          []ChoiceView `json:"choices,omitempty"`
	SelectedChoiceID *string      `json:"selected_choice_id"`
	IsAnswerCorrect  *bool        `json:"is_answer_correct"`
	Answer           *Choice      `json:"answer,omitempty"`
}

// Snapshot renders the session for display. The answer is revealed only
// once the round has been answered; a complete session shows only its
// totals.
func (s *Session) Snapshot() View {
	v := View{
		State:       s.state.String(),
		Mode:        string(s.mode),
		Round:       s.round,
		TotalRounds: s.rounds,
		Score:       s.score,
	}
	if s.state == StateComplete {
		return v
	}

	v.Prompt = s.Prompt()
	v.Choices = make([]ChoiceView, 0, len(s.question.Choices))
	for _, c := range s.question.Choices {
		v.Choices = append(v.Choices, ChoiceView{ID: c.ID, Label: c.Label, Status: s.ChoiceStatus(c.ID)})
	}

	if s.answered {
		selected, correct := s.selected, s.correct
		answer := choiceOf(s.question.Answer)
		v.SelectedChoiceID = &selected
		v.IsAnswerCorrect = &correct
		v.Answer = &answer
	}
	return v
}
