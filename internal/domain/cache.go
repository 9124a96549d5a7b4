package domain

// RunCache holds the last aggregated result of a task together with the
// fingerprint of the inputs that produced it.
type RunCache struct {
	Task        string            `json:"task"`
	Fingerprint string            `json:"fingerprint"`
	Result      *AggregatedResult `json:"result"`
}

// IsInvalidated reports whether the cached result no longer matches.
func (c *RunCache) IsInvalidated(fingerprint string) bool {
	return c == nil || c.Result == nil || c.Fingerprint != fingerprint
}
