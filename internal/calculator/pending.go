package calculator

import "sort"

// MonthStatus is one of a player's monthly records reduced to what the
// pending-dues count needs.
type MonthStatus struct {
	Year  int
	Month int
	Paid  bool
}

func (m MonthStatus) ordinal() int {
	return m.Year*12 + (m.Month - 1)
}

// PendingCount counts the unpaid months in history at or before (year, month).
func PendingCount(history []MonthStatus, year, month int) int {
	asOf := MonthStatus{Year: year, Month: month}.ordinal()
	count := 0
	for _, m := range history {
		if m.ordinal() <= asOf && !m.Paid {
			count++
		}
	}
	return count
}

// RunningPendingCounts returns, for every entry of history, the PendingCount
// as of that entry's month. The result is aligned with the input order; the
// input is not modified.
//
// This is the batched form of calling PendingCount once per record: one sort
// and one pass instead of one pass per record.
func RunningPendingCounts(history []MonthStatus) []int {
	order := make([]int, len(history))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return history[order[a]].ordinal() < history[order[b]].ordinal()
	})

	counts := make([]int, len(history))
	running := 0
	for i := 0; i < len(order); {
		// Records sharing a month see each other.
		j := i
		ord := history[order[i]].ordinal()
		for j < len(order) && history[order[j]].ordinal() == ord {
			if !history[order[j]].Paid {
				running++
			}
			j++
		}
		for k := i; k < j; k++ {
			counts[order[k]] = running
		}
		i = j
	}
	return counts
}
