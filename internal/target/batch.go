package target

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/arnvid/scanmap/internal/errors"
	"github.com/arnvid/scanmap/internal/logging"
	"github.com/arnvid/scanmap/internal/portspec"
)

// ResolveList resolves a comma-separated address specification into a
// target list. Every token shares the same port specification. The
// expansion is all-or-nothing: the first malformed token aborts the whole
// batch, and a resolution that produces no targets at all is an error.
func (e *Expander) ResolveList(ctx context.Context, spec, portsSpec string) ([]Target, error) {
	ports, err := portspec.Parse(portsSpec)
	if err != nil {
		return nil, err
	}

	targets, err := e.resolveTokens(ctx, spec, ports)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, errors.ErrEmptyTargetSet()
	}

	logging.Info("resolved target list", "tokens", spec, "targets", len(targets))
	return targets, nil
}

// ResolveFile resolves a line-oriented target file, one address token per
// line. Lines receive the same comma splitting as ResolveList, so the two
// entry points accept identical syntax. Blank lines are ignored. A line
// that fails to expand discards the whole batch.
func (e *Expander) ResolveFile(ctx context.Context, path, portsSpec string) ([]Target, error) {
	ports, err := portspec.Parse(portsSpec)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.ErrTargetFile(path, err)
	}
	defer f.Close()

	var targets []Target
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		expanded, err := e.resolveTokens(ctx, line, ports)
		if err != nil {
			return nil, err
		}
		targets = append(targets, expanded...)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.ErrTargetFile(path, err)
	}

	if len(targets) == 0 {
		return nil, errors.ErrEmptyTargetSet()
	}

	logging.Info("resolved target file", "path", path, "targets", len(targets))
	return targets, nil
}

// resolveTokens splits a comma-separated token list and expands each token
// in input order. No cross-token deduplication happens here: a target
// covered by two origins is kept twice.
func (e *Expander) resolveTokens(ctx context.Context, spec string, ports portspec.Set) ([]Target, error) {
	var targets []Target
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		expanded, err := e.Expand(ctx, token, ports)
		if err != nil {
			return nil, err
		}
		targets = append(targets, expanded...)
	}
	return targets, nil
}

// Dedupe removes repeated (address, ports) pairs from a resolved sequence,
// keeping the first-seen origin. It is an explicit post-pass; resolution
// itself never deduplicates.
func Dedupe(targets []Target) []Target {
	type key struct {
		addr  string
		ports string
	}
	seen := make(map[key]struct{}, len(targets))
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		k := key{addr: t.Addr.String(), ports: t.Ports.String()}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out
}
