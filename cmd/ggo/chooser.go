package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ggo/internal/errors"
	"ggo/internal/resolver"
)

// promptChoice shows the ranked candidates and reads a numbered selection
// from stdin. An empty line or "q" cancels.
func promptChoice(candidates []resolver.Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New(errors.InternalError, "no candidates to choose from", nil)
	}

	fmt.Fprintln(os.Stderr, "Multiple branches match:")
	for i, c := range candidates {
		fmt.Fprintf(os.Stderr, "  %2d) %-40s  score %8.1f\n", i+1, c.BranchName, c.Combined)
	}
	fmt.Fprint(os.Stderr, "Select branch [1]: ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", errors.New(errors.UserCancelled, "selection aborted", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return candidates[0].BranchName, nil
	}
	if line == "q" || line == "Q" {
		return "", errors.New(errors.UserCancelled, "selection cancelled", nil)
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(candidates) {
		return "", errors.New(errors.UserCancelled,
			fmt.Sprintf("invalid selection %q", line), nil)
	}
	return candidates[n-1].BranchName, nil
}
