package domain

// SeverityClassification partitions inspection identifiers into tiers.
// It is built once per run and never changes afterwards.
type SeverityClassification struct {
	errors   []string
	warnings []string
	infos    []string
}

// NewSeverityClassification builds a classification from the three tiers.
// The input slices are copied.
func NewSeverityClassification(errors, warnings, infos []string) SeverityClassification {
	return SeverityClassification{
		errors:   cloneStrings(errors),
		warnings: cloneStrings(warnings),
		infos:    cloneStrings(infos),
	}
}

// Errors returns the error-tier identifiers in document order.
func (c SeverityClassification) Errors() []string { return cloneStrings(c.errors) }

// Warnings returns the warning-tier identifiers in document order.
func (c SeverityClassification) Warnings() []string { return cloneStrings(c.warnings) }

// Infos returns the info-tier identifiers in document order.
func (c SeverityClassification) Infos() []string { return cloneStrings(c.infos) }

// Len is the total number of classified identifiers.
func (c SeverityClassification) Len() int {
	return len(c.errors) + len(c.warnings) + len(c.infos)
}

// ClassificationView is the serialisable form of a classification.
type ClassificationView struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Infos    []string `json:"infos"`
}

// View returns a JSON-friendly copy. Empty tiers are encoded as [] rather than null.
func (c SeverityClassification) View() ClassificationView {
	v := ClassificationView{
		Errors:   c.Errors(),
		Warnings: c.Warnings(),
		Infos:    c.Infos(),
	}
	if v.Errors == nil {
		v.Errors = []string{}
	}
	if v.Warnings == nil {
		v.Warnings = []string{}
	}
	if v.Infos == nil {
		v.Infos = []string{}
	}
	return v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
