package metrics

// TruncateLower truncates a lower bound to at most n bytes. A prefix is
// always byte-lexicographically <= the full value, so the result stays a
// valid lower bound.
func TruncateLower(b []byte, n int) []byte {
	if n <= 0 || len(b) <= n {
		return b
	}
	return append([]byte(nil), b[:n]...)
}

// TruncateUpper truncates an upper bound to at most n bytes while keeping
// it >= the full value: the last kept byte is incremented, carrying left
// over 0xff bytes. When every kept byte is 0xff no valid truncated upper
// bound exists and nil is returned; the caller drops the bound rather
// than emit one that understates the maximum.
func TruncateUpper(b []byte, n int) []byte {
	if n <= 0 || len(b) <= n {
		return b
	}

	out := append([]byte(nil), b[:n]...)
	for i := n - 1; i >= 0; i-- {
		if out[i] != 0xff {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}
