package coaching

// ExtractJSONObject returns the first balanced {...} span in raw, which is
// how an object is recovered from model output that wraps it in prose or
// markdown fences. Braces inside string values are not tracked, so a string
// containing an unbalanced brace can skew the span; the strict parse that
// follows catches that case and it is reported as a generation failure
// rather than repaired.
func ExtractJSONObject(raw string) (string, bool) {
	start := -1
	depth := 0
	for i, r := range raw {
		switch r {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return raw[start : i+1], true
			}
		}
	}
	return "", false
}
