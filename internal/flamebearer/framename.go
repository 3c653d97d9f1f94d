package flamebearer

import "strings"

// Frame is a stack-frame label split by the naming convention of the
// profiler that produced it.
type Frame struct {
	Function    string
	PackageName string
	Filename    string
	LineInfo    string
}

// FrameParser splits a label. It reports false when the label does not
// follow the convention.
type FrameParser func(name string) (Frame, bool)

const defaultSpy = "default"

var frameParsers = map[string]FrameParser{
	"pyspy":    parsePySpyFrame,
	"rbspy":    parseRbSpyFrame,
	"gospy":    parseGoSpyFrame,
	defaultSpy: parsePathFrame,
}

// RegisterFrameParser installs a parser for a profiler kind, replacing any
// previous one.
func RegisterFrameParser(spyName string, parser FrameParser) {
	frameParsers[spyName] = parser
}

// ParseFrameName splits name using the parser registered for spyName,
// falling back to the default path convention. A label that matches no
// convention becomes its own package.
func ParseFrameName(spyName, name string) Frame {
	if name == "" {
		return Frame{}
	}
	parser, ok := frameParsers[spyName]
	if !ok {
		parser = frameParsers[defaultSpy]
	}
	frame, ok := parser(name)
	if !ok {
		return Frame{PackageName: name}
	}
	return frame
}

// PackageName returns the grouping key used to colour a frame.
func PackageName(spyName, name string) string {
	return ParseFrameName(spyName, name).PackageName
}

// parsePathFrame treats everything up to the last slash as the package.
func parsePathFrame(name string) (Frame, bool) {
	cut := strings.LastIndexByte(name, '/') + 1
	return Frame{PackageName: name[:cut], Filename: name[cut:]}, true
}

// parsePySpyFrame handles "pkg/dir/file.py:12 - func" style labels. The
// filename ends at the last ".py" and the package at the slash before it.
func parsePySpyFrame(name string) (Frame, bool) {
	ext := strings.LastIndex(name, ".py")
	if ext < 0 {
		return Frame{}, false
	}
	end := ext + len(".py")
	for end < len(name) && name[end] == 'y' {
		end++
	}
	cut := strings.LastIndexByte(name[:ext], '/') + 1
	return Frame{
		PackageName: name[:cut],
		Filename:    name[cut:end],
		LineInfo:    name[end:],
	}, true
}

// parseRbSpyFrame strips an optional leading "method - " before applying
// the path convention.
func parseRbSpyFrame(name string) (Frame, bool) {
	var function string
	if i := strings.Index(name, " - "); i > 0 {
		function, name = name[:i], name[i+len(" - "):]
	}
	frame, ok := parsePathFrame(name)
	frame.Function = function
	return frame, ok
}

// parseGoSpyFrame keys Go symbols by import path, so "net/http.(*conn).serve"
// and "net/http.HandlerFunc.ServeHTTP" share a colour.
func parseGoSpyFrame(name string) (Frame, bool) {
	slash := strings.LastIndexByte(name, '/') + 1
	dot := strings.IndexByte(name[slash:], '.')
	if dot < 0 {
		// Synthetic frames such as the root or raw addresses name no file.
		return Frame{PackageName: name}, true
	}
	pkg := name[:slash+dot]
	return Frame{Function: name[slash+dot+1:], PackageName: pkg}, true
}
