package leads

// Process is the terminal step of the record pipeline: truncate every field
// to its declared maximum, then validate against the policy. It is a pure
// function of its inputs, so the crawl glue around it stays trivially
// testable.
func Process(raw Record, policy Policy) (Record, bool, string) {
	rec := TruncateFields(raw)
	accepted, reason := Validate(rec, policy)

	return rec, accepted, reason
}
