package analysis

import (
	"math"
	"sort"
)

// Series is a carrier-indexed aggregate. Labels may repeat when series from
// different element groups are concatenated; use Merge to sum them.
type Series struct {
	Index  []string
	Values []float64
}

func (s Series) Len() int { return len(s.Index) }

// Append adds one row.
func (s *Series) Append(label string, v float64) {
	s.Index = append(s.Index, label)
	s.Values = append(s.Values, v)
}

// Get sums every row with the given label.
func (s Series) Get(label string) (float64, bool) {
	sum, found := 0.0, false
	for i, l := range s.Index {
		if l == label {
			sum += s.Values[i]
			found = true
		}
	}
	return sum, found
}

// Concat stacks series in order, keeping duplicate labels.
func Concat(parts ...Series) Series {
	var out Series
	for _, p := range parts {
		out.Index = append(out.Index, p.Index...)
		out.Values = append(out.Values, p.Values...)
	}
	return out
}

// Merge sums rows sharing a label, keeping first-seen order.
func (s Series) Merge() Series {
	pos := map[string]int{}
	var out Series
	for i, l := range s.Index {
		if j, ok := pos[l]; ok {
			out.Values[j] += s.Values[i]
			continue
		}
		pos[l] = out.Len()
		out.Append(l, s.Values[i])
	}
	return out
}

// Rename relabels rows found in m.
func (s Series) Rename(m map[string]string) Series {
	out := Series{Index: make([]string, len(s.Index)), Values: append([]float64(nil), s.Values...)}
	for i, l := range s.Index {
		if to, ok := m[l]; ok {
			l = to
		}
		out.Index[i] = l
	}
	return out
}

// Neg flips the sign of every value.
func (s Series) Neg() Series {
	out := Series{Index: append([]string(nil), s.Index...), Values: make([]float64, len(s.Values))}
	for i, v := range s.Values {
		out.Values[i] = -v
	}
	return out
}

// Add sums two series label by label; a label missing on one side counts as 0.
// The result is sorted by label.
func (s Series) Add(o Series) Series {
	sums := map[string]float64{}
	for _, p := range []Series{s, o} {
		for i, l := range p.Index {
			sums[l] += p.Values[i]
		}
	}
	return fromMap(sums)
}

// Map returns label -> summed value.
func (s Series) Map() map[string]float64 {
	out := make(map[string]float64, len(s.Index))
	for i, l := range s.Index {
		out[l] += s.Values[i]
	}
	return out
}

// groupSum sums values per key, sorted by key. NaN values are skipped but
// their key is still listed.
func groupSum(keys []string, values []float64) Series {
	sums := map[string]float64{}
	for i, k := range keys {
		if _, ok := sums[k]; !ok {
			sums[k] = 0
		}
		if !math.IsNaN(values[i]) {
			sums[k] += values[i]
		}
	}
	return fromMap(sums)
}

func fromMap(m map[string]float64) Series {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := Series{Index: keys, Values: make([]float64, len(keys))}
	for i, k := range keys {
		out.Values[i] = m[k]
	}
	return out
}
