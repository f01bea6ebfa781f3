package markup

import "unicode/utf8"

// Extract returns the trimmed text between the first <tag> and the first
// </tag> that follows it, matching tag names case-insensitively.
//
// ok is false when the opening tag is missing or is not followed by a
// closing tag. The raw text between the tags is cut to maxLen bytes (on a
// UTF-8 boundary) before trimming, so surrounding whitespace counts toward
// the limit; maxLen <= 0 disables the limit.
func Extract(text []byte, tag string, maxLen int) (value string, ok bool) {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"

	start := IndexFold(text, open)
	if start < 0 {
		return "", false
	}
	start += len(open)

	end := IndexFold(text[start:], closing)
	if end < 0 {
		return "", false
	}

	inner := text[start : start+end]
	if maxLen > 0 && len(inner) > maxLen {
		inner = truncate(inner, maxLen)
	}
	return string(trimSpace(inner)), true
}

// ContainsFold reports whether needle occurs in text, ignoring ASCII case.
func ContainsFold(text []byte, needle string) bool {
	return IndexFold(text, needle) >= 0
}

// IndexFold returns the index of the first ASCII case-insensitive occurrence
// of needle in text, or -1.
func IndexFold(text []byte, needle string) int {
	n := len(needle)
	if n == 0 {
		return 0
	}
	first := lower(needle[0])
	for i := 0; i+n <= len(text); i++ {
		if lower(text[i]) != first {
			continue
		}
		if equalFold(text[i:i+n], needle) {
			return i
		}
	}
	return -1
}

func equalFold(b []byte, s string) bool {
	for i := 0; i < len(s); i++ {
		if lower(b[i]) != lower(s[i]) {
			return false
		}
	}
	return true
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	for len(b) > 0 && isSpace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

// truncate cuts b to at most n bytes without splitting a UTF-8 sequence.
func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	for back := 0; back < utf8.UTFMax && n-back > 0; back++ {
		if utf8.RuneStart(b[n-back]) {
			return b[:n-back]
		}
	}
	return b[:n]
}
