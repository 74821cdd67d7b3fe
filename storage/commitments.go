package storage

// SetCommitment persists a voter's ballot commitment for a question.
// Commitments are write-once (spec §5); ErrKeyAlreadyExists signals a
// duplicate submission, which the orchestrator maps to a "conflict".
func (s *Storage) SetCommitment(c Commitment) error {
	key := commitmentKey(c.ElectionID.String(), c.QuestionID.String(), c.UserID.String())
	return setValue(s, commitmentPrefix, key, c, false)
}

// GetCommitment looks up a voter's commitment for a question.
func (s *Storage) GetCommitment(electionID, questionID, userID string) (Commitment, error) {
	return getValue[Commitment](s, commitmentPrefix, commitmentKey(electionID, questionID, userID))
}

// ListCommittedVotersByQuestion returns the ids of voters who have
// posted a commitment for a question, used to compute the complement set
// of non-voters at close-of-voting (spec §4.4).
func (s *Storage) ListCommittedVotersByQuestion(electionID, questionID string) ([]string, error) {
	innerPrefix := []byte(electionID + "/" + questionID + "/")
	var out []string
	err := iterateValues(s, commitmentPrefix, innerPrefix, func(_ []byte, c Commitment) bool {
		out = append(out, c.UserID.String())
		return true
	})
	return out, err
}
