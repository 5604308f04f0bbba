package effmap

import (
	"math"
	"sort"
)

// speedGroupTolerance is the maximum gap, in the speed channel's own units,
// between adjacent sorted samples that still belong to one speed group.
const speedGroupTolerance = 6

// Normalize produces the cleaned, speed-grouped dataset the envelope and
// interpolation stages consume. The input is not modified.
//
// Steps: sort by speed; coalesce runs of near-duplicate speeds into their
// rounded mean; re-sort by (speed, torque); drop rows with missing values;
// drop rows whose efficiency falls outside [0, 100). An empty result is not
// an error here — downstream stages handle zero-length datasets.
func Normalize(d *Dataset) *Dataset {
	n := d.Len()
	out := reorder(d, sortedIndex(n, func(i, j int) bool {
		return d.Speed[i] < d.Speed[j]
	}))

	groupSpeeds(out.Speed)

	out = reorder(out, sortedIndex(n, func(i, j int) bool {
		if out.Speed[i] != out.Speed[j] {
			return out.Speed[i] < out.Speed[j]
		}
		return out.Torque[i] < out.Torque[j]
	}))

	return filterRows(out)
}

// groupSpeeds replaces each run of sorted speeds whose successive gaps stay
// within the tolerance by the rounded mean of the run. The final run is
// closed after the scan; a single-sample dataset still forms one group.
func groupSpeeds(speeds []float64) {
	n := len(speeds)
	if n == 0 {
		return
	}
	orig := make([]float64, n)
	copy(orig, speeds)

	sum := orig[0]
	count := 0
	for i := 0; i < n-1; i++ {
		if math.Abs(orig[i]-orig[i+1]) <= speedGroupTolerance {
			sum += orig[i+1]
			count++
			continue
		}
		avg := math.Round(sum / float64(count+1))
		for k := i - count; k <= i; k++ {
			speeds[k] = avg
		}
		count = 0
		sum = orig[i+1]
	}
	avg := math.Round(sum / float64(count+1))
	for k := n - 1 - count; k < n; k++ {
		speeds[k] = avg
	}
}

func filterRows(d *Dataset) *Dataset {
	keep := make([]int, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		if rowHasNaN(d, i) {
			continue
		}
		if !effValid(d.EffMCU[i]) || !effValid(d.EffMotor[i]) || !effValid(d.EffSYS[i]) {
			continue
		}
		keep = append(keep, i)
	}
	return reorder(d, keep)
}

// effValid is the half-open [0, 100) filter: exactly 100 is sentinel data in
// the source convention, not a valid maximum.
func effValid(v float64) bool {
	return v >= 0 && v < 100
}

func rowHasNaN(d *Dataset, i int) bool {
	return math.IsNaN(d.Speed[i]) || math.IsNaN(d.Torque[i]) || math.IsNaN(d.Power[i]) ||
		math.IsNaN(d.EffMCU[i]) || math.IsNaN(d.EffMotor[i]) || math.IsNaN(d.EffSYS[i]) ||
		math.IsNaN(d.Udc[i])
}

func sortedIndex(n int, less func(i, j int) bool) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return less(idx[a], idx[b]) })
	return idx
}

func reorder(d *Dataset, idx []int) *Dataset {
	pick := func(src []float64) []float64 {
		out := make([]float64, len(idx))
		for i, k := range idx {
			out[i] = src[k]
		}
		return out
	}
	return &Dataset{
		Speed:    pick(d.Speed),
		Torque:   pick(d.Torque),
		Power:    pick(d.Power),
		EffMCU:   pick(d.EffMCU),
		EffMotor: pick(d.EffMotor),
		EffSYS:   pick(d.EffSYS),
		Udc:      pick(d.Udc),
	}
}
