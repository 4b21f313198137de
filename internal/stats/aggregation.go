package stats

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// WeightedMean calculates the weighted mean. Missing weights default
// to 1; when all weights are zero it falls back to the plain mean so
// the caller never divides by zero.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sumWeighted, sumWeights float64
	for i, v := range values {
		w := 1.0
		if i < len(weights) {
			w = weights[i]
		}
		sumWeighted += v * w
		sumWeights += w
	}

	if sumWeights == 0 {
		return Mean(values)
	}

	return sumWeighted / sumWeights
}

// Min returns the minimum value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}
