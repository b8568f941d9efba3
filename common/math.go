package common

// GCD returns the greatest common divisor of a and b using the Euclidean algorithm.
// GCD(0, 0) is 0.
//
// Parameters:
//   - a: first operand
//   - b: second operand
//
// Returns:
//   - uint32: the greatest common divisor
func GCD(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
