package storage

// SetQuestion stores a question row, keyed by its own id.
func (s *Storage) SetQuestion(q Question) error {
	return setValue(s, questionPrefix, []byte(q.ID.String()), q, true)
}

// GetQuestion looks up a question by id.
func (s *Storage) GetQuestion(id string) (Question, error) {
	return getValue[Question](s, questionPrefix, []byte(id))
}

// ListQuestionsByElection returns every question belonging to electionID.
// Questions are keyed by their own id, so this scans the whole prefix;
// election question sets are small enough (spec §3 question_set) that a
// full scan per election is acceptable.
func (s *Storage) ListQuestionsByElection(electionID string) ([]Question, error) {
	var out []Question
	err := iterateValues(s, questionPrefix, nil, func(_ []byte, q Question) bool {
		if q.ElectionID.String() == electionID {
			out = append(out, q)
		}
		return true
	})
	return out, err
}

// SetOrchestratorQuestion stores a question row in the orchestrator's own
// namespace, keyed by its own id. Reuses the Question shape since the
// orchestrator needs exactly the same fields (spec §3 question_set) the
// collector persists.
func (s *Storage) SetOrchestratorQuestion(q Question) error {
	return setValue(s, orchestratorQuestionPrefix, []byte(q.ID.String()), q, true)
}

// GetOrchestratorQuestion looks up an orchestrator-side question by id.
func (s *Storage) GetOrchestratorQuestion(id string) (Question, error) {
	return getValue[Question](s, orchestratorQuestionPrefix, []byte(id))
}

// ListOrchestratorQuestionsByElection returns every question the
// orchestrator persisted for electionID.
func (s *Storage) ListOrchestratorQuestionsByElection(electionID string) ([]Question, error) {
	var out []Question
	err := iterateValues(s, orchestratorQuestionPrefix, nil, func(_ []byte, q Question) bool {
		if q.ElectionID.String() == electionID {
			out = append(out, q)
		}
		return true
	})
	return out, err
}
