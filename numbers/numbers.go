package numbers

import "math"

// Perct returns the percentage that part is of whole, or nil if whole is 0.
func Perct(part, whole uint64) *float64 {
	return Div(part*100, whole)
}

// Div divides two integers and returns a float64 with 2 precision, or nil when dividing by 0.
func Div(i1, i2 uint64) *float64 {
	if i2 == 0 {
		return nil
	}
	f := truncate(float64(i1)/float64(i2), 2)
	return &f
}

func truncate(f float64, p int) float64 {
	m := math.Pow10(p)
	return math.Round(f*m) / m
}
