package compute

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// aggregate folds a per-game series (newest first) into one value under a
// calc weight. Blend weights are handled one level up, in the computer;
// this function only sees base weight tokens.
func aggregate(values []float64, weight string) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoGames
	}
	switch weight {
	case "raw":
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum, nil
	case "avg":
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values)), nil
	}

	pattern, k, ok := parseParamWeight(weight)
	if !ok {
		return 0, fmt.Errorf("unsupported calc weight %q", weight)
	}
	switch pattern {
	case "top":
		return topK(values, k), nil
	case "recency":
		return recencyWeighted(values, k), nil
	default:
		return 0, fmt.Errorf("unsupported calc weight %q", weight)
	}
}

// parseParamWeight splits "pattern(k=N)" into its parts.
func parseParamWeight(weight string) (pattern string, k int, ok bool) {
	open := strings.Index(weight, "(k=")
	if open <= 0 || !strings.HasSuffix(weight, ")") {
		return "", 0, false
	}
	n, err := strconv.Atoi(weight[open+3 : len(weight)-1])
	if err != nil || n <= 0 {
		return "", 0, false
	}
	return weight[:open], n, true
}

// topK returns the mean of the k largest values.
func topK(values []float64, k int) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if k > len(sorted) {
		k = len(sorted)
	}
	var sum float64
	for _, v := range sorted[:k] {
		sum += v
	}
	return sum / float64(k)
}

// recencyWeighted returns the weighted mean with a half-life of k games:
// the newest value has weight 1, a value k games back has weight 0.5.
func recencyWeighted(values []float64, k int) float64 {
	var sum, weightSum float64
	for i, v := range values {
		w := math.Pow(0.5, float64(i)/float64(k))
		sum += v * w
		weightSum += w
	}
	return sum / weightSum
}
