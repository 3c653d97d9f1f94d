package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/Oloruntobi1/tui-flamegraph/internal/flamebearer"
)

// sourceLocation resolves the file and line behind a frame of p, with
// relative paths taken from root. Positions recorded by the profile builder
// win over ones parsed from the label. It returns "" for the root frame and
// for labels that carry no file.
func sourceLocation(root string, p *flamebearer.Profile, name string) (string, int) {
	if name == "" || p.Empty() {
		return "", 0
	}
	if top := p.Levels[0]; len(top) > 0 && p.Name(top[0].Name) == name {
		return "", 0
	}

	if src, ok := p.Sources[name]; ok {
		return resolvePath(root, src.Filename), src.Line
	}

	frame := flamebearer.ParseFrameName(p.SpyName, name)
	if frame.Filename == "" {
		return "", 0
	}
	return resolvePath(root, frame.PackageName+frame.Filename), parseLine(frame.LineInfo)
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// parseLine extracts the first number after a colon, as in ":12 - main".
func parseLine(info string) int {
	i := strings.IndexByte(info, ':')
	if i < 0 {
		return 0
	}
	digits := strings.TrimLeftFunc(info[i+1:], unicode.IsSpace)
	end := strings.IndexFunc(digits, func(r rune) bool { return !unicode.IsDigit(r) })
	if end >= 0 {
		digits = digits[:end]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// highlightSource renders filePath with line numbers, marking line with an
// arrow. Unreadable files and labels without a file yield a one-line
// message instead.
func highlightSource(filePath string, line int) string {
	if filePath == "" {
		return "No source file available."
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Sprintf("Error reading file %s:\n%v", filePath, err)
	}
	text := strings.TrimSuffix(string(content), "\n")

	lexer := lexers.Match(filePath)
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	var highlighted bytes.Buffer
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err == nil {
		err = formatters.TTY256.Format(&highlighted, styles.Get("monokai"), it)
	}
	if err != nil {
		highlighted.Reset()
		highlighted.WriteString(text)
	}

	var b strings.Builder
	for i, src := range strings.Split(highlighted.String(), "\n") {
		if i+1 == line {
			b.WriteString("  -> | ")
		} else {
			fmt.Fprintf(&b, "%4d | ", i+1)
		}
		b.WriteString(src)
		b.WriteByte('\n')
	}
	return b.String()
}
