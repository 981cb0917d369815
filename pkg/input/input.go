package input

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cbodonnell/stride/pkg/locomotion"
	"github.com/cbodonnell/stride/pkg/queue"
)

// Sampler produces one input snapshot per frame.
type Sampler interface {
	Sample() locomotion.Input
}

// Bindings names the keys driving a character. Names follow ebiten's key
// names (for example "W", "ShiftLeft", "Space").
type Bindings struct {
	Forward string `yaml:"forward"`
	Back    string `yaml:"back"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
	Sprint  string `yaml:"sprint"`
	Jump    string `yaml:"jump"`
	Crouch  string `yaml:"crouch"`

	// MouseScale converts cursor pixels into look units.
	MouseScale float64 `yaml:"mouse_scale"`
}

func DefaultBindings() Bindings {
	return Bindings{
		Forward:    "W",
		Back:       "S",
		Left:       "A",
		Right:      "D",
		Sprint:     "ShiftLeft",
		Jump:       "Space",
		Crouch:     "C",
		MouseScale: 0.1,
	}
}

// ScriptSampler replays queued snapshots, one per Sample. An empty queue
// yields the zero snapshot.
type ScriptSampler struct {
	queue queue.Queue[locomotion.Input]
}

func NewScriptSampler(q queue.Queue[locomotion.Input]) *ScriptSampler {
	return &ScriptSampler{queue: q}
}

func (s *ScriptSampler) Sample() locomotion.Input {
	in, _ := s.queue.Dequeue()
	return in
}

// Push appends snapshots to the end of the script.
func (s *ScriptSampler) Push(inputs ...locomotion.Input) error {
	for i, in := range inputs {
		if err := s.queue.Enqueue(in); err != nil {
			return fmt.Errorf("failed to queue input %d: %w", i, err)
		}
	}
	return nil
}

// Remaining returns the number of snapshots not yet sampled.
func (s *ScriptSampler) Remaining() int {
	return s.queue.Size()
}

// ParseScript reads an input script. Each non-empty line is a frame count
// followed by tokens held for those frames:
//
//	fwd back left right sprint jump crouch look=<dx>,<dy>
//
// jump and crouch are presses and only fire on the first frame of their line.
// Each token may appear once per line. Lines starting with # are comments.
func ParseScript(r io.Reader) ([]locomotion.Input, error) {
	var inputs []locomotion.Input
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		frames, err := strconv.Atoi(fields[0])
		if err != nil || frames < 0 {
			return nil, fmt.Errorf("line %d: invalid frame count %q", lineNumber, fields[0])
		}

		held, err := parseTokens(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}

		for i := 0; i < frames; i++ {
			in := held
			if i > 0 {
				in.Jump = false
				in.Crouch = false
			}
			inputs = append(inputs, in)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return inputs, nil
}

func parseTokens(tokens []string) (locomotion.Input, error) {
	in := locomotion.Input{}
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		name, _, _ := strings.Cut(token, "=")
		if seen[name] {
			return in, fmt.Errorf("repeated token %q", name)
		}
		seen[name] = true

		switch {
		case token == "fwd":
			in.Forward += 1
		case token == "back":
			in.Forward -= 1
		case token == "right":
			in.Right += 1
		case token == "left":
			in.Right -= 1
		case token == "sprint":
			in.Sprint = true
		case token == "jump":
			in.Jump = true
		case token == "crouch":
			in.Crouch = true
		case strings.HasPrefix(token, "look="):
			dx, dy, ok := strings.Cut(strings.TrimPrefix(token, "look="), ",")
			if !ok {
				return in, fmt.Errorf("look token %q must be look=<dx>,<dy>", token)
			}
			x, err := strconv.ParseFloat(dx, 64)
			if err != nil {
				return in, fmt.Errorf("invalid look dx %q: %w", dx, err)
			}
			y, err := strconv.ParseFloat(dy, 64)
			if err != nil {
				return in, fmt.Errorf("invalid look dy %q: %w", dy, err)
			}
			in.LookX, in.LookY = x, y
		default:
			return in, fmt.Errorf("unknown token %q", token)
		}
	}
	return in, nil
}
