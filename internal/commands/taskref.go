package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"tasklist/internal/exitcode"
	"tasklist/internal/store"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the leading task number from args and returns it with
// the remaining arguments. Task numbers are 1-based positions in display
// order, optionally written with a leading '#'.
func ParseTaskRef(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, ErrTaskRefRequired
	}

	ref := strings.TrimPrefix(args[0], "#")
	if !isAllDigits(ref) {
		return 0, nil, fmt.Errorf("invalid task reference: %s", args[0])
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid task reference: %s", args[0])
	}
	return num, args[1:], nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// taskAt returns the task with 1-based number num.
func taskAt(tasks []store.Task, num int) (store.Task, error) {
	if num < 1 || num > len(tasks) {
		return store.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return tasks[num-1], nil
}

// lookupTask parses the task reference at the front of args and finds the
// task in the store. On failure the error is written to errOut and the
// returned code is not exitcode.Success.
func lookupTask(ctx context.Context, st *store.Store, args []string, errOut io.Writer) (store.Task, []string, int) {
	num, rest, err := ParseTaskRef(args)
	if err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return store.Task{}, nil, exitcode.UserError
	}

	task, err := taskAt(st.LoadAll(ctx), num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return store.Task{}, nil, exitcode.UserError
	}
	return task, rest, exitcode.Success
}
