package simlog

// SeriesSummary describes a series for logging and inspection.
type SeriesSummary struct {
	Name   string
	Points int
	FirstX float64
	LastX  float64
	FinalY float64
}

// Summarize computes a SeriesSummary.
// Safe for nil or empty series (returns zero-value fields).
func Summarize(s *Series) SeriesSummary {
	if s == nil {
		return SeriesSummary{}
	}
	summary := SeriesSummary{Name: s.Name, Points: s.Len()}
	if summary.Points == 0 {
		return summary
	}
	summary.FirstX = s.X[0]
	summary.LastX = s.X[summary.Points-1]
	summary.FinalY = s.Y[summary.Points-1]
	return summary
}
