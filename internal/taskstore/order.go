package taskstore

// MoveElement moves the element at from so that it occupies index to,
// shifting the elements in between by one. It returns the sequence and
// false, untouched, when from equals to or either index is out of range.
//
// The move is done in place on seq's backing array.
func MoveElement[T any](seq []T, from, to int) ([]T, bool) {
	if from == to || from < 0 || to < 0 || from >= len(seq) || to >= len(seq) {
		return seq, false
	}

	moved := seq[from]
	if from < to {
		copy(seq[from:to], seq[from+1:to+1])
	} else {
		copy(seq[to+1:from+1], seq[to:from])
	}
	seq[to] = moved

	return seq, true
}
