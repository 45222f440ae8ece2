package report

// Wrap splits seq into lines of width characters; the last line holds the
// remainder and is omitted when there is none. A non-positive width yields
// seq as a single line.
func Wrap(seq string, width int) []string {
	if seq == "" {
		return nil
	}
	if width <= 0 {
		return []string{seq}
	}
	out := make([]string, 0, (len(seq)+width-1)/width)
	for len(seq) > width {
		out = append(out, seq[:width])
		seq = seq[width:]
	}
	return append(out, seq)
}
