package flamebearer

import (
	"fmt"
	"io"
	"slices"

	"github.com/google/pprof/profile"
)

// defaultSampleRate is used when a profile carries no usable period.
const defaultSampleRate = 100

// ParsePprof reads a pprof profile (gzipped or raw protobuf) into a tree.
// sampleType selects the value column; empty means the profile's default.
func ParsePprof(r io.Reader, sampleType string) (*Tree, int64, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, 0, fmt.Errorf("could not parse pprof data: %w", err)
	}
	return TreeFromPprof(p, sampleType)
}

// TreeFromPprof folds every sample of p into a tree. It also returns the
// number of ticks per second for the selected value column.
func TreeFromPprof(p *profile.Profile, sampleType string) (*Tree, int64, error) {
	idx, err := sampleIndex(p, sampleType)
	if err != nil {
		return nil, 0, err
	}

	t := NewTree()
	for _, s := range p.Sample {
		val := s.Value[idx]
		if val == 0 {
			continue
		}

		stack := make([]string, 0, len(s.Location))
		for _, loc := range s.Location {
			if len(loc.Line) == 0 {
				stack = append(stack, fmt.Sprintf("0x%x", loc.Address))
				continue
			}
			// Inlined callees come first, their caller last.
			for _, line := range loc.Line {
				name := functionName(line.Function)
				stack = append(stack, name)
				if fn := line.Function; fn != nil {
					t.SetSource(name, Source{Filename: fn.Filename, Line: definitionLine(fn, line)})
				}
			}
		}
		// pprof stacks are leaf first.
		slices.Reverse(stack)
		t.Insert(stack, val)
	}

	return t, sampleRate(p, idx), nil
}

func sampleIndex(p *profile.Profile, sampleType string) (int, error) {
	if len(p.SampleType) == 0 {
		return 0, fmt.Errorf("no sample types in profile")
	}
	want := sampleType
	if want == "" {
		want = p.DefaultSampleType
	}
	for i, st := range p.SampleType {
		if st.Type == want {
			return i, nil
		}
	}
	if sampleType != "" {
		return 0, fmt.Errorf("sample type %q not found in profile", sampleType)
	}
	// pprof treats the last column as the default.
	return len(p.SampleType) - 1, nil
}

// definitionLine prefers the function's first line, which is the same for
// every sample, over the sampled line.
func definitionLine(fn *profile.Function, line profile.Line) int {
	if fn.StartLine > 0 {
		return int(fn.StartLine)
	}
	return int(line.Line)
}

func functionName(fn *profile.Function) string {
	switch {
	case fn == nil:
		return "??"
	case fn.Name != "":
		return fn.Name
	case fn.SystemName != "":
		return fn.SystemName
	}
	return "??"
}

// sampleRate converts the value unit of column idx into ticks per second.
func sampleRate(p *profile.Profile, idx int) int64 {
	switch p.SampleType[idx].Unit {
	case "nanoseconds":
		return 1_000_000_000
	case "microseconds":
		return 1_000_000
	case "milliseconds":
		return 1_000
	case "seconds":
		return 1
	}
	if p.PeriodType != nil && p.PeriodType.Unit == "nanoseconds" && p.Period > 0 {
		return max(1_000_000_000/p.Period, 1)
	}
	return defaultSampleRate
}
