package domain

// Zero overwrites b with zeros so key bytes do not linger in memory.
func Zero(b []byte) {
	clear(b)
}
