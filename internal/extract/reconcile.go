package extract

// Reconcile merges one turn's candidate field set with the session's stored
// snapshot, field by field over the fixed schema:
//
//   - a known candidate value wins and updates the snapshot;
//   - otherwise a known stored value is carried forward into the candidate,
//     so a field never regresses just because one turn didn't mention it;
//   - otherwise the candidate's unknown value stays as-is.
//
// The candidate map is mutated in place (carry-forward fills its gaps) and
// the new snapshot is returned. Fields outside the schema stay in the
// candidate for this turn but are never written to the snapshot.
func Reconcile(candidate, stored map[string]any) map[string]any {
	snapshot := make(map[string]any, len(stored))
	for k, v := range stored {
		snapshot[k] = v
	}

	for _, field := range Schema {
		newVal := candidate[field]
		if isKnown(newVal) {
			snapshot[field] = newVal
			continue
		}
		if prevVal, ok := snapshot[field]; ok && isKnown(prevVal) {
			candidate[field] = prevVal
		}
	}

	return snapshot
}
