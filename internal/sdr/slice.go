package sdr

import (
	"fmt"
	"sort"
)

// Slices — разбиение наблюдений на срезы по значению отклика.
type Slices struct {
	// Order — индексы наблюдений, отсортированные по y.
	Order []int

	// Labels — номер среза для каждого наблюдения (в исходном порядке).
	Labels []int

	// Counts — число наблюдений в каждом срезе.
	Counts []int
}

// Len возвращает фактическое число срезов.
func (s *Slices) Len() int {
	return len(s.Counts)
}

// Members возвращает индексы наблюдений среза h (в порядке возрастания y).
func (s *Slices) Members(h int) []int {
	start := 0
	for i := 0; i < h; i++ {
		start += s.Counts[i]
	}
	return s.Order[start : start+s.Counts[h]]
}

// Slice разбивает наблюдения на n срезов примерно равного размера.
//
// Одинаковые значения y всегда попадают в один срез, поэтому срезов
// может получиться меньше n. Хвост меньше половины целевого размера
// присоединяется к предыдущему срезу.
func Slice(y []float64, n int) (*Slices, error) {
	if n < 2 {
		return nil, newEstimationError("slice",
			fmt.Sprintf("need at least 2 slices, got %d", n), ErrInvalidSlices)
	}
	if len(y) < 2 {
		return nil, newEstimationError("slice",
			fmt.Sprintf("need at least 2 samples, got %d", len(y)), ErrTooFewSamples)
	}

	order := make([]int, len(y))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return y[order[a]] < y[order[b]]
	})

	if y[order[0]] == y[order[len(order)-1]] {
		return nil, newEstimationError("slice",
			"all response values are equal", ErrConstantResponse)
	}

	target := len(y) / n
	if target < 1 {
		target = 1
	}

	counts := []int{0}
	for i, idx := range order {
		counts[len(counts)-1]++

		last := i == len(order)-1
		if last || len(counts) == n {
			continue
		}
		// Граница среза только между разными значениями y
		if counts[len(counts)-1] >= target && y[idx] != y[order[i+1]] {
			counts = append(counts, 0)
		}
	}

	// Короткий хвост сливаем с предыдущим срезом
	if k := len(counts); k > 1 && counts[k-1]*2 < target {
		counts[k-2] += counts[k-1]
		counts = counts[:k-1]
	}

	labels := make([]int, len(y))
	pos := 0
	for h, c := range counts {
		for _, idx := range order[pos : pos+c] {
			labels[idx] = h
		}
		pos += c
	}

	return &Slices{
		Order:  order,
		Labels: labels,
		Counts: counts,
	}, nil
}
