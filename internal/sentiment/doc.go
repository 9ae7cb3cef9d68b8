// Package sentiment scores review text for polarity.
//
// A review is split into emoji code points and emoji-free text. The text is
// vectorized, the emoji weights are summed into one scalar, and the scalar is
// appended to the text vector. A linear classifier scores the fused vector and
// a fixed threshold turns the score into a Positive or Negative label.
//
// A Pipeline is built once from loaded artifacts and is safe for concurrent
// use: nothing it touches is mutated after construction.
package sentiment
