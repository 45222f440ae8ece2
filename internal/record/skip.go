package record

// Skip discards the rest of a record whose opening line was already read,
// including any nested records. It returns false when input ended before the
// record was closed.
func (r *Reader) Skip() bool {
	depth := 1
	for {
		l, ok := r.Next()
		if !ok {
			return false
		}
		switch l.Kind {
		case Open:
			depth++
		case Close:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
}
