package storage

// SetCancellationShares persists the aggregated cancellation shares for a
// question. Happens once per question at close-of-voting (spec §5).
func (s *Storage) SetCancellationShares(c CancellationShares) error {
	key := cancellationKey(c.ElectionID.String(), c.QuestionID.String())
	return setValue(s, cancellationPrefix, key, c, false)
}

// GetCancellationShares looks up a question's aggregated cancellation
// shares.
func (s *Storage) GetCancellationShares(electionID, questionID string) (CancellationShares, error) {
	return getValue[CancellationShares](s, cancellationPrefix, cancellationKey(electionID, questionID))
}
