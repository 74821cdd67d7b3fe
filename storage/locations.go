package storage

// SetEncryptedLocation stores a voter's encrypted anonymization ordinal.
// Writable only during initialization (spec §3, §5).
func (s *Storage) SetEncryptedLocation(l EncryptedLocation) error {
	key := encryptedLocationKey(l.ElectionID.String(), l.UserID.String())
	return setValue(s, encryptedLocationPrefix, key, l, true)
}

// GetEncryptedLocation looks up a voter's encrypted location.
func (s *Storage) GetEncryptedLocation(electionID, userID string) (EncryptedLocation, error) {
	return getValue[EncryptedLocation](s, encryptedLocationPrefix, encryptedLocationKey(electionID, userID))
}

// ListEncryptedLocationsByElection returns every voter's encrypted
// location for an election, the list the location-anonymization pipeline
// iterates across collectors (spec §4.1.3).
func (s *Storage) ListEncryptedLocationsByElection(electionID string) ([]EncryptedLocation, error) {
	innerPrefix := []byte(electionID + "/")
	var out []EncryptedLocation
	err := iterateValues(s, encryptedLocationPrefix, innerPrefix, func(_ []byte, l EncryptedLocation) bool {
		out = append(out, l)
		return true
	})
	return out, err
}
