package util

import "testing"

// NewTestingLogger routes log output lines to tb.Log.
func NewTestingLogger(tb testing.TB) *CommitLogger {
	return &CommitLogger{
		Committer: func(p []byte) {
			tb.Log(string(p))
		},
	}
}
