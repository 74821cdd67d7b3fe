package types

const (
	// MinCandidatesPerQuestion is the minimum number of candidates a
	// question must offer.
	MinCandidatesPerQuestion = 2
)
