package dice

import "sort"

// Aggregate combines a pool's cached values into one result.
// Implementations must be pure: the same values always give the same result.
type Aggregate func(values []int) (int, error)

// Sum adds every value.
func Sum(values []int) (int, error) {
	if len(values) == 0 {
		return 0, ErrEmptyPool
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return total, nil
}

// Highest sums the n highest values.
func Highest(n int) Aggregate {
	return func(values []int) (int, error) {
		if len(values) == 0 {
			return 0, ErrEmptyPool
		}
		sorted := sortedCopy(values)
		sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
		return sumFirst(sorted, n), nil
	}
}

// Lowest sums the n lowest values.
func Lowest(n int) Aggregate {
	return func(values []int) (int, error) {
		if len(values) == 0 {
			return 0, ErrEmptyPool
		}
		return sumFirst(sortedCopy(values), n), nil
	}
}

// DropLowest sums every value except the n lowest.
func DropLowest(n int) Aggregate {
	return func(values []int) (int, error) {
		if len(values) == 0 {
			return 0, ErrEmptyPool
		}
		sorted := sortedCopy(values)
		if n > len(sorted) {
			n = len(sorted)
		}
		total := 0
		for _, v := range sorted[n:] {
			total += v
		}
		return total, nil
	}
}

func sortedCopy(values []int) []int {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	return sorted
}

func sumFirst(values []int, n int) int {
	if n > len(values) {
		n = len(values)
	}
	total := 0
	for _, v := range values[:n] {
		total += v
	}
	return total
}
