package storage

// SetElection stores or replaces a collector-side election row. Per spec
// §4.2 "if election known: overwrite ... must be atomic", the caller is
// expected to hold Lock() for the duration of the whole initialization
// transaction this call is part of.
func (s *Storage) SetElection(e Election) error {
	return setValue(s, electionPrefix, []byte(e.ID.String()), e, true)
}

// GetElection looks up a collector-side election row by id.
func (s *Storage) GetElection(id string) (Election, error) {
	return getValue[Election](s, electionPrefix, []byte(id))
}

// SetMediatorElection stores or replaces the mediator-side election row.
func (s *Storage) SetMediatorElection(e MediatorElection) error {
	return setValue(s, mediatorElectionPrefix, []byte(e.ID.String()), e, true)
}

// GetMediatorElection looks up the mediator-side election row by id.
func (s *Storage) GetMediatorElection(id string) (MediatorElection, error) {
	return getValue[MediatorElection](s, mediatorElectionPrefix, []byte(id))
}

// SetOrchestratorElection stores or replaces the orchestrator-side
// election row.
func (s *Storage) SetOrchestratorElection(e OrchestratorElection) error {
	return setValue(s, orchestratorElectionPrefix, []byte(e.ID.String()), e, true)
}

// GetOrchestratorElection looks up the orchestrator-side election row by
// id.
func (s *Storage) GetOrchestratorElection(id string) (OrchestratorElection, error) {
	return getValue[OrchestratorElection](s, orchestratorElectionPrefix, []byte(id))
}
