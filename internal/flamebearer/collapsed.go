package flamebearer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseCollapsed reads Brendan Gregg's folded format, one "a;b;c 12"
// stack per line, into a tree.
func ParseCollapsed(r io.Reader) (*Tree, error) {
	t := NewTree()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		idx := strings.LastIndexByte(line, ' ')
		if idx == -1 {
			return nil, errors.New("collapsed: malformed input")
		}
		count, err := strconv.ParseInt(line[idx+1:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("collapsed: malformed input: %w", err)
		}
		t.Insert(strings.Split(line[:idx], ";"), count)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("collapsed: %w", err)
	}

	return t, nil
}
