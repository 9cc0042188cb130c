package simlog

// Series is one named, time-ordered sequence of (x, y) points.
// X and Y always have the same length; use Append to keep them in step.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// NewSeries creates an empty series with non-nil point slices.
func NewSeries(name string) Series {
	return Series{Name: name, X: make([]float64, 0), Y: make([]float64, 0)}
}

// Append adds one point to the end of the series.
func (s *Series) Append(x, y float64) {
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
}

// Len returns the number of points.
func (s *Series) Len() int {
	return len(s.X)
}

// SeriesSet is an ordered mapping from series key to series.
// Keys keep declaration order; a declared key with no points is still present.
type SeriesSet struct {
	keys  []string
	byKey map[string]*Series
}

// NewSeriesSet creates an empty set.
func NewSeriesSet() *SeriesSet {
	return &SeriesSet{byKey: make(map[string]*Series)}
}

// Declare adds an empty series under key. Declaring an existing key is a no-op
// and returns false.
func (ss *SeriesSet) Declare(key, name string) bool {
	if _, ok := ss.byKey[key]; ok {
		return false
	}
	s := NewSeries(name)
	ss.keys = append(ss.keys, key)
	ss.byKey[key] = &s
	return true
}

// Get returns the series for key.
func (ss *SeriesSet) Get(key string) (*Series, bool) {
	s, ok := ss.byKey[key]
	return s, ok
}

// Keys returns the keys in declaration order.
func (ss *SeriesSet) Keys() []string {
	out := make([]string, len(ss.keys))
	copy(out, ss.keys)
	return out
}

// Len returns the number of declared series.
func (ss *SeriesSet) Len() int {
	return len(ss.keys)
}

// Ordered returns copies of the series in declaration order.
func (ss *SeriesSet) Ordered() []Series {
	out := make([]Series, 0, len(ss.keys))
	for _, k := range ss.keys {
		out = append(out, *ss.byKey[k])
	}
	return out
}

// AlignedPair holds a simulated and a reference series that share x = 0 as origin.
// The two series may differ in point count and x-values.
type AlignedPair struct {
	Sim       Series
	Reference Series
}
