package models

// ResponseEnvelope is one aggregation run: records sorted by confidence descending.
// Note: built fresh per run and never mutated after it is returned.
type ResponseEnvelope struct {
	TimeZone    string         `json:"timeZone"`
	GeneratedAt string         `json:"generatedAt"`
	Data        []SignalRecord `json:"data"`
}
