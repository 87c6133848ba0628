package bot

import "testing"

func TestParseInputs(t *testing.T) {
	buttons := map[string]bool{
		"up": true, "down": true, "left": true, "right": true,
		"a": true, "b": true, "select": true, "start": true,
	}

	tests := []struct {
		content string
		want    []Input
		ok      bool
	}{
		{"a", []Input{{Button: "a"}}, true},
		{"A", []Input{{Button: "a"}}, true},
		{"  start  ", []Input{{Button: "start"}}, true},
		{"press b", []Input{{Button: "b"}}, true},
		{"hold b 1.5", []Input{{Button: "b", Hold: true, Seconds: 1.5}}, true},
		{"up 2", []Input{{Button: "up", Hold: true, Seconds: 2}}, true},
		{"a, up, hold b 1", []Input{
			{Button: "a"},
			{Button: "up"},
			{Button: "b", Hold: true, Seconds: 1},
		}, true},

		// not button input:
		{"", nil, false},
		{"hello everyone", nil, false},
		{"z", nil, false},
		{"press z", nil, false},
		{"hold z 1", nil, false},
		{"a b c d", nil, false},

		// bad hold durations:
		{"hold b 0", nil, false},
		{"hold b -1", nil, false},
		{"hold b 11", nil, false},
		{"hold b x", nil, false},

		// too many inputs in one message:
		{"a, a, a, a, a, a, a, a, a", nil, false},
	}

	for _, tt := range tests {
		got, ok := parseInputs(tt.content, buttons)
		if ok != tt.ok {
			t.Errorf("parseInputs(%q) ok = %v, want %v", tt.content, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseInputs(%q) = %v, want %v", tt.content, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("parseInputs(%q)[%d] = %v, want %v", tt.content, i, got[i], tt.want[i])
			}
		}
	}
}
