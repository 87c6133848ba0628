package emu

import (
	"fmt"
	"log"
	"sync/atomic"
)

const chanSize = 8

// Queue serializes command execution against one instance. All access to
// an Emulator after Start goes through its Queue; that is the whole
// single-flight story for a game.
type Queue struct {
	// instance name, for log prefixes
	name string

	e Emulator

	cq       chan CommandWithCompletion
	cqClosed atomic.Bool
}

// NewQueue starts the handler goroutine for e. The queue owns e until a
// StopCommand (or nil command) terminates it.
func NewQueue(name string, e Emulator) *Queue {
	if e == nil {
		panic("emulator must not be nil")
	}
	q := &Queue{
		name: name,
		e:    e,
		cq:   make(chan CommandWithCompletion, chanSize),
	}
	go q.handleQueue()
	return q
}

func (q *Queue) Enqueue(cmd CommandWithCompletion) (err error) {
	// FIXME: no great way I can figure out how to avoid panic on closed channel send below.
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("%s: instance is closed", q.name)
		}
	}()

	if q.cqClosed.Load() {
		err = fmt.Errorf("%s: instance is closed", q.name)
		return
	}

	q.cq <- cmd
	return
}

// EnqueueMulti enqueues a sequence with only the last command receiving
// the completion.
func (q *Queue) EnqueueMulti(cmds []Command, complete Completion) (err error) {
	for i, cmd := range cmds {
		pair := CommandWithCompletion{Command: cmd}
		if i == len(cmds)-1 {
			pair.Completion = complete
		}
		if err = q.Enqueue(pair); err != nil {
			return
		}
	}
	return
}

func (q *Queue) handleQueue() {
	var err error
	doClose := func() {
		if q.cqClosed.Swap(true) {
			log.Printf("%s: already closed\n", q.name)
			return
		}
		if err != nil {
			log.Printf("%s: %v\n", q.name, err)
		}

		close(q.cq)
	}
	defer doClose()

	for pair := range q.cq {
		cmd := pair.Command
		if cmd == nil {
			break
		}

		terminal := false
		if _, ok := cmd.(*StopCommand); ok {
			log.Printf("%s: processing StopCommand\n", q.name)
			terminal = true
		}

		err = cmd.Execute(q.e)
		if pair.Completion != nil {
			pair.Completion(cmd, err)
		} else if err != nil {
			log.Println(err)
		}

		if terminal {
			break
		}
	}
}
