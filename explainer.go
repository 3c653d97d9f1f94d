// explainer.go
package main

// Explanation holds the title and text for a help topic.
type Explanation struct {
	Title       string
	Description string
}

// explainerMap contains human-friendly explanations for each profiler kind.
var explainerMap = map[string]Explanation{
	"gospy": {
		Title: "Go profile (gospy / pprof)",
		Description: `Each bar is a function. Its width is the share of samples in which the function was on the stack; the bars above it are the functions it called.

Frames are coloured by import path, so everything from one package shares a colour.

Look for wide bars near the top of the graph: those functions burn time themselves rather than in their callees.`,
	},
	"pyspy": {
		Title: "Python profile (py-spy)",
		Description: `Frames look like "path/to/file.py:12 - function". py-spy samples the interpreter from outside, so time spent in C extensions shows up under the Python frame that called them.

Frames are coloured by directory, so modules from one package share a colour.`,
	},
	"rbspy": {
		Title: "Ruby profile (rbspy)",
		Description: `Frames look like "method - path/to/file.rb". rbspy samples the Ruby VM from outside the process.

Frames are coloured by directory, so one gem or app folder shares a colour.`,
	},
	"collapsed": {
		Title:       "Collapsed stacks",
		Description: `The profile was read from folded stacks ("a;b;c 12"). Each line is one stack with its sample count; identical prefixes are merged into a tree.`,
	},
}

// getExplanationForSpy finds the help text for a profiler kind.
func getExplanationForSpy(spyName string) Explanation {
	if e, ok := explainerMap[spyName]; ok {
		return e
	}
	if spyName == "" {
		return explainerMap["collapsed"]
	}
	// Default explanation
	return Explanation{
		Title:       spyName,
		Description: "No specific explanation available for this profiler yet.",
	}
}
