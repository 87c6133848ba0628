package bot

import (
	"strconv"
	"strings"
)

// Input is one parsed element of the button mini-language.
type Input struct {
	Button  string
	Hold    bool
	Seconds float64
}

const (
	// maxSequence bounds how many inputs one message may enqueue.
	maxSequence = 8
	// maxHoldSeconds bounds a single hold.
	maxHoldSeconds = 10
)

// parseInputs interprets a chat message as button presses:
//
//	a
//	press start
//	hold b 1.5
//	up 2           (hold shorthand)
//	a, up, hold b 1
//
// ok is false when the message is not button input at all, so registered
// channels stay usable for ordinary chat.
func parseInputs(content string, buttons map[string]bool) ([]Input, bool) {
	content = strings.ToLower(strings.TrimSpace(content))
	if content == "" {
		return nil, false
	}

	parts := strings.Split(content, ",")
	if len(parts) > maxSequence {
		return nil, false
	}

	inputs := make([]Input, 0, len(parts))
	for _, part := range parts {
		in, ok := parseOne(strings.Fields(part), buttons)
		if !ok {
			return nil, false
		}
		inputs = append(inputs, in)
	}
	return inputs, true
}

func parseOne(fields []string, buttons map[string]bool) (Input, bool) {
	switch len(fields) {
	case 1:
		// "a"
		if !buttons[fields[0]] {
			return Input{}, false
		}
		return Input{Button: fields[0]}, true

	case 2:
		// "press a" | "<btn> <sec>"
		if fields[0] == "press" && buttons[fields[1]] {
			return Input{Button: fields[1]}, true
		}
		if buttons[fields[0]] {
			if sec, ok := parseSeconds(fields[1]); ok {
				return Input{Button: fields[0], Hold: true, Seconds: sec}, true
			}
		}
		return Input{}, false

	case 3:
		// "hold b 1.5"
		if fields[0] != "hold" || !buttons[fields[1]] {
			return Input{}, false
		}
		sec, ok := parseSeconds(fields[2])
		if !ok {
			return Input{}, false
		}
		return Input{Button: fields[1], Hold: true, Seconds: sec}, true
	}
	return Input{}, false
}

func parseSeconds(s string) (float64, bool) {
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || sec <= 0 || sec > maxHoldSeconds {
		return 0, false
	}
	return sec, true
}
