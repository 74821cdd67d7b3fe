package storage

// SetRegistration stores one voter's four shares for one question. Writes
// only ever happen inside the initialization transaction (spec §5).
func (s *Storage) SetRegistration(r Registration) error {
	key := registrationKey(r.ElectionID.String(), r.QuestionID.String(), r.UserID.String())
	return setValue(s, registrationPrefix, key, r, true)
}

// GetRegistration looks up a voter's registration for a question, failing
// with ErrNotFound ("not-registered" per spec §7) if none exists.
func (s *Storage) GetRegistration(electionID, questionID, userID string) (Registration, error) {
	return getValue[Registration](s, registrationPrefix, registrationKey(electionID, questionID, userID))
}

// ListRegistrationsByQuestion returns every voter's registration for a
// question, used by cancellation-share aggregation (spec §4.2).
func (s *Storage) ListRegistrationsByQuestion(electionID, questionID string) ([]Registration, error) {
	innerPrefix := []byte(electionID + "/" + questionID + "/")
	var out []Registration
	err := iterateValues(s, registrationPrefix, innerPrefix, func(_ []byte, r Registration) bool {
		out = append(out, r)
		return true
	})
	return out, err
}
