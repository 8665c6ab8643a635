package inventory

// MergeStats reports what a merge did.
type MergeStats struct {
	Added    int
	Replaced int
	Skipped  int
}

// Changed reports whether the merge touched the snapshot.
func (m MergeStats) Changed() bool {
	return m.Added+m.Replaced > 0
}

// Summary is the record count and byte total of a snapshot.
type Summary struct {
	Count      int
	TotalBytes int64
}

// Snapshot is an ordered set of records with unique paths. Order follows first
// insertion and only keeps persistence deterministic.
type Snapshot struct {
	records []Record
	index   map[string]int
}

// NewSnapshot builds a snapshot from records. Duplicate paths collapse with the
// last occurrence winning, exactly as a Merge would.
func NewSnapshot(records ...Record) *Snapshot {
	snapshot := &Snapshot{
		records: make([]Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	snapshot.Merge(records)

	return snapshot
}

// Clone returns an independent copy.
func (s *Snapshot) Clone() *Snapshot {
	return NewSnapshot(s.records...)
}

// Get returns the record stored for path.
func (s *Snapshot) Get(path string) (Record, bool) {
	i, ok := s.index[path]
	if !ok {
		return Record{}, false
	}

	return s.records[i], true
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Merge inserts or replaces each record of batch by path. The later record
// replaces the earlier one whole; fields are never blended. Records without a
// path are skipped.
func (s *Snapshot) Merge(batch []Record) MergeStats {
	var stats MergeStats

	for _, record := range batch {
		if record.Path == "" {
			stats.Skipped++

			continue
		}

		if i, ok := s.index[record.Path]; ok {
			s.records[i] = record
			stats.Replaced++

			continue
		}

		s.index[record.Path] = len(s.records)
		s.records = append(s.records, record)
		stats.Added++
	}

	return stats
}

// Records returns a copy of all records in snapshot order.
func (s *Snapshot) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)

	return out
}

// RemoveWhere deletes all records matching pred and returns how many went.
func (s *Snapshot) RemoveWhere(pred func(Record) bool) int {
	kept := s.records[:0]
	removed := 0

	for _, record := range s.records {
		if pred(record) {
			removed++

			continue
		}

		kept = append(kept, record)
	}

	if removed == 0 {
		return 0
	}

	// zero the tail so dropped records can be collected
	for i := len(kept); i < len(s.records); i++ {
		s.records[i] = Record{}
	}

	s.records = kept
	s.index = make(map[string]int, len(kept))

	for i, record := range kept {
		s.index[record.Path] = i
	}

	return removed
}

// Summary returns the count and byte total of the snapshot.
func (s *Snapshot) Summary() Summary {
	summary := Summary{Count: len(s.records)}

	for _, record := range s.records {
		summary.TotalBytes += record.SizeBytes
	}

	return summary
}
