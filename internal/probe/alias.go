package probe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/teamcutter/pybox/internal/domain"
)

// Candidate command names, in descending preference: versioned names newest
// to oldest, then the generic aliases.
var aliasCandidates = []string{
	"python3.10",
	"python3.9",
	"python3.8",
	"python3.7",
	"python3.6",
	"python3.5",
	"python3.4",
	"python3.3",
	"python3.2",
	"python3.1",
	"python3",
	"python",
	"python2",
}

// AliasMatch is a PATH command confirmed to be a Python of the requested
// major.minor.
type AliasMatch struct {
	Alias   string
	Version domain.Version
}

// FindAliases probes each candidate command on the search path and keeps the
// ones whose confirmed major.minor equals the requested one, in candidate
// order. Candidates that fail to run or to report a parseable version are
// skipped.
func (p *Prober) FindAliases(ctx context.Context, requested domain.Version) []AliasMatch {
	var matches []AliasMatch
	for _, alias := range aliasCandidates {
		v, ok := p.Probe(ctx, alias)
		if !ok {
			continue
		}
		if v.MatchesMinor(requested) {
			matches = append(matches, AliasMatch{Alias: alias, Version: v})
		}
	}
	return matches
}

var magenta = color.New(color.FgMagenta).SprintFunc()

// SelectAlias asks the operator to pick one of several matching aliases by
// its 1-based index. One prompt, one line read, the leading character is the
// answer; anything unparseable or out of range aborts the provisioning call.
func SelectAlias(matches []AliasMatch, in io.Reader, out io.Writer) (AliasMatch, error) {
	fmt.Fprintln(out, magenta("Found multiple compatible Python aliases. Please enter the number associated with the one you'd like to use for this project:"))
	for i, m := range matches {
		fmt.Fprintf(out, "%d: %s version: %s\n", i+1, m.Alias, m.Version)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return AliasMatch{}, fmt.Errorf("%w: %v", domain.ErrNoSelection, err)
	}
	if line == "" {
		return AliasMatch{}, domain.ErrNoSelection
	}

	n, err := strconv.Atoi(string(line[0]))
	if err != nil {
		return AliasMatch{}, fmt.Errorf("%w: enter the number associated with the Python alias", domain.ErrNoSelection)
	}
	if n < 1 || n > len(matches) {
		return AliasMatch{}, fmt.Errorf("%w: %d is not in the list above", domain.ErrNoSelection, n)
	}
	return matches[n-1], nil
}
