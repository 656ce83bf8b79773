package goldmark

import "bytes"

// source wraps the parsed text with the offset arithmetic the mapper needs
// to recover construct boundaries goldmark does not record.
type source []byte

// lineStart returns the offset of the first byte of the line containing off.
func (s source) lineStart(off int) int {
	off = min(off, len(s))
	for off > 0 && s[off-1] != '\n' {
		off--
	}
	return off
}

// lineEnd returns the offset of the terminator of the line containing off,
// excluding a carriage return before it.
func (s source) lineEnd(off int) int {
	off = max(off, 0)
	for off < len(s) && s[off] != '\n' {
		off++
	}
	if off > 0 && off <= len(s) && s[off-1] == '\r' {
		off--
	}
	return off
}

// nextLine returns the offset of the line following the one containing off,
// or len(s) for the last line.
func (s source) nextLine(off int) int {
	i := bytes.IndexByte(s[min(off, len(s)):], '\n')
	if i < 0 {
		return len(s)
	}
	return off + i + 1
}

// trimEnd moves end back over line terminators.
func (s source) trimEnd(end int) int {
	end = min(end, len(s))
	for end > 0 && (s[end-1] == '\n' || s[end-1] == '\r') {
		end--
	}
	return end
}

// skipBack moves off back over bytes in set, without crossing a line start.
func (s source) skipBack(off int, set string) int {
	for off > 0 && s[off-1] != '\n' && bytes.IndexByte([]byte(set), s[off-1]) >= 0 {
		off--
	}
	return off
}

// skipForward moves off forward over bytes in set.
func (s source) skipForward(off int, set string) int {
	for off < len(s) && bytes.IndexByte([]byte(set), s[off]) >= 0 {
		off++
	}
	return off
}

// run returns the length of the run of c starting at off.
func (s source) run(off int, c byte) int {
	n := 0
	for off+n < len(s) && s[off+n] == c {
		n++
	}
	return n
}

// scanLines calls match for every line starting at or after from, and for
// the line containing from when from is its start. match returns the offset
// within the line of the construct it found.
func (s source) scanLines(from int, match func(line []byte) (int, bool)) (int, bool) {
	from = max(from, 0)
	start := s.lineStart(from)
	if start < from {
		start = s.nextLine(from)
	}
	for start < len(s) {
		end := s.lineEnd(start)
		if i, ok := match(s[start:end]); ok {
			return start + i, true
		}
		start = s.nextLine(start)
	}
	return 0, false
}

// firstSignificant returns the first byte at or after from that is not
// whitespace or a blockquote marker.
func (s source) firstSignificant(from int) (int, bool) {
	i := s.skipForward(max(from, 0), " \t\r\n>")
	return i, i < len(s)
}

// fenceRun finds an opening code fence in line: three or more backticks or
// tildes after optional container prefixes.
func fenceRun(line []byte) (int, bool) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '`' && c != '~' {
			continue
		}
		n := 0
		for i+n < len(line) && line[i+n] == c {
			n++
		}
		if n >= 3 {
			return i, true
		}
		i += n - 1
	}
	return 0, false
}

// thematicBreak finds a thematic break in line: three or more '-', '*' or
// '_' optionally separated by spaces, with nothing else after.
func thematicBreak(line []byte) (int, bool) {
	for i, c := range line {
		if c != '-' && c != '*' && c != '_' {
			continue
		}
		n := 0
		valid := true
		for _, d := range line[i:] {
			switch d {
			case c:
				n++
			case ' ', '\t':
			default:
				valid = false
			}
			if !valid {
				break
			}
		}
		if valid && n >= 3 {
			return i, true
		}
	}
	return 0, false
}

// listMarker finds a list item marker in line: a bullet or an ordered
// number followed by '.' or ')', after optional container prefixes.
func listMarker(line []byte) (int, bool) {
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == ' ' || c == '\t' || c == '>':
			continue
		case c == '-' || c == '+' || c == '*':
			return i, true
		case c >= '0' && c <= '9':
			j := i
			for j < len(line) && line[j] >= '0' && line[j] <= '9' {
				j++
			}
			if j < len(line) && (line[j] == '.' || line[j] == ')') {
				return i, true
			}
			return 0, false
		default:
			return 0, false
		}
	}
	return 0, false
}

// closingParen returns the offset just past the ')' matching the '(' at
// open, honouring nested parentheses, angle-bracket destinations, quoted
// titles and backslash escapes.
func (s source) closingParen(open int) (int, bool) {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			if depth == 1 && (s[i-1] == ' ' || s[i-1] == '\t' || s[i-1] == '\n') {
				quote = c
			}
		case c == '<' && i == s.skipForward(open+1, " \t"):
			j := bytes.IndexByte(s[i:], '>')
			if j < 0 {
				return 0, false
			}
			i += j
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
