package storage

import "sort"

// SetElectionCollector records a single (election, collector, index)
// binding, mediator-side, as part of election initialization.
func (s *Storage) SetElectionCollector(ec ElectionCollector) error {
	key := electionCollectorKey(ec.ElectionID.String(), ec.Index)
	return setValue(s, electionCollectorPrefix, key, ec, true)
}

// ListElectionCollectors returns an election's collector bindings
// ordered by ascending index, the order election initialization and
// verification fan-out must use (spec §4.3).
func (s *Storage) ListElectionCollectors(electionID string) ([]ElectionCollector, error) {
	innerPrefix := []byte(electionID + "/")
	var out []ElectionCollector
	err := iterateValues(s, electionCollectorPrefix, innerPrefix, func(_ []byte, ec ElectionCollector) bool {
		out = append(out, ec)
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}
