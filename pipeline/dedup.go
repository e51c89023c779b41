package pipeline

// Deduplicate collapses records sharing an identity key within one cycle,
// keeping the last-seen record for each key. A sheet legitimately carries
// multiple edits of the same deposit in one read; later rows in source
// order win. First-seen key order is preserved for stable upserts.
func Deduplicate(records []*Record) []*Record {
	if len(records) == 0 {
		return records
	}
	byKey := make(map[string]int, len(records))
	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if i, ok := byKey[r.ID]; ok {
			out[i] = r
			continue
		}
		byKey[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}
