// Package testdata holds recorded label sequences for end-to-end tests.
//
// A sequence file lists one step per line as "<label> <frames>", where label
// is a gesture label or "none" for frames without a hand. Lines of the form
// "expect floor N", "expect predicted N" and "expect mode M" state the
// outcome. Blank lines and lines starting with '#' are ignored.
package testdata

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/ayusman/floorsign/internal/gesture"
)

//go:embed sequences/*.txt
var sequencesFS embed.FS

// Step holds one label for a number of frames.
type Step struct {
	Label gesture.Label
	// Hand is false for frames with no hand in view.
	Hand   bool
	Frames int
}

// Sequence is a parsed sequence file.
type Sequence struct {
	Name  string
	Steps []Step

	Floor     int
	Predicted int
	Mode      string
}

// Frames returns the total number of frames in the sequence.
func (s *Sequence) Frames() int {
	n := 0
	for _, st := range s.Steps {
		n += st.Frames
	}
	return n
}

// Sequences lists the embedded sequence names, sorted.
func Sequences() ([]string, error) {
	entries, err := sequencesFS.ReadDir("sequences")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(names)
	return names, nil
}

// LoadSequence loads and parses an embedded sequence by name.
func LoadSequence(name string) (*Sequence, error) {
	data, err := sequencesFS.ReadFile(path.Join("sequences", name+".txt"))
	if err != nil {
		return nil, fmt.Errorf("load sequence %s: %w", name, err)
	}

	seq, err := parseSequence(data)
	if err != nil {
		return nil, fmt.Errorf("parse sequence %s: %w", name, err)
	}
	seq.Name = name
	return seq, nil
}

func parseSequence(data []byte) (*Sequence, error) {
	seq := &Sequence{}
	predicted := false

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if fields[0] == "expect" {
			if len(fields) != 3 {
				return nil, fmt.Errorf("line %d: want \"expect <what> <value>\"", lineNo)
			}
			switch fields[1] {
			case "floor", "predicted":
				n, err := strconv.Atoi(fields[2])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				if fields[1] == "floor" {
					seq.Floor = n
				} else {
					seq.Predicted = n
					predicted = true
				}
			case "mode":
				seq.Mode = fields[2]
			default:
				return nil, fmt.Errorf("line %d: unknown expectation %q", lineNo, fields[1])
			}
			continue
		}

		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want \"<label> <frames>\"", lineNo)
		}
		frames, err := strconv.Atoi(fields[1])
		if err != nil || frames < 1 {
			return nil, fmt.Errorf("line %d: invalid frame count %q", lineNo, fields[1])
		}

		step := Step{Frames: frames}
		if fields[0] != "none" {
			label, err := gesture.ParseLabel(fields[0])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			step.Label = label
			step.Hand = true
		}
		seq.Steps = append(seq.Steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Without a pending selection the predicted floor is the floor.
	if !predicted {
		seq.Predicted = seq.Floor
	}
	return seq, nil
}
