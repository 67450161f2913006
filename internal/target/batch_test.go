package target

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnvid/scanmap/internal/errors"
	"github.com/arnvid/scanmap/internal/portspec"
)

func writeTargetFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0600))
	return path
}

func TestResolveListConcatenatesInOrder(t *testing.T) {
	e := &Expander{}

	targets, err := e.ResolveList(context.Background(), "10.0.0.2,10.0.0.1,192.168.0.0/31", "80")
	require.NoError(t, err)

	// Input order is preserved; the report layer re-sorts later.
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.1", "192.168.0.0", "192.168.0.1"}, addrsOf(targets))
}

func TestResolveListMatchesIndividualExpansion(t *testing.T) {
	e := &Expander{}
	ctx := context.Background()

	listed, err := e.ResolveList(ctx, "10.0.0.1,10.0.0.4-10.0.0.5", "22,80")
	require.NoError(t, err)

	ports := portspec.Set{22, 80}
	a, err := e.Expand(ctx, "10.0.0.1", ports)
	require.NoError(t, err)
	b, err := e.Expand(ctx, "10.0.0.4-10.0.0.5", ports)
	require.NoError(t, err)

	assert.Equal(t, append(a, b...), listed)
}

func TestResolveListKeepsDuplicateOrigins(t *testing.T) {
	e := &Expander{}

	targets, err := e.ResolveList(context.Background(), "10.0.0.1,10.0.0.0-10.0.0.2", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0", "10.0.0.1", "10.0.0.2"}, addrsOf(targets))
}

func TestResolveListBadPorts(t *testing.T) {
	e := &Expander{}

	_, err := e.ResolveList(context.Background(), "10.0.0.1", "90-80")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodePortParse), "got %v", err)
}

func TestResolveListEmptyResult(t *testing.T) {
	e := &Expander{}

	_, err := e.ResolveList(context.Background(), " , ,", "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyTargets), "got %v", err)
}

func TestResolveFile(t *testing.T) {
	resolver := &fakeResolver{answers: map[string][]netip.Addr{
		"example.com": mustAddrs(t, "93.184.216.34"),
	}}
	e := &Expander{Resolver: resolver, Family: FamilyIPv4First}

	path := writeTargetFile(t, "10.0.0.1\n192.168.5.5-192.168.5.6\n\nexample.com\n\n")
	targets, err := e.ResolveFile(context.Background(), path, "443")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.5.5", "192.168.5.6", "93.184.216.34"}, addrsOf(targets))
	assert.Equal(t, []string{"example.com"}, resolver.calls)
}

func TestResolveFileCommaLinesMatchListSyntax(t *testing.T) {
	e := &Expander{}

	path := writeTargetFile(t, "10.0.0.1,10.0.0.2\n10.0.0.3\n")
	fromFile, err := e.ResolveFile(context.Background(), path, "")
	require.NoError(t, err)

	fromList, err := e.ResolveList(context.Background(), "10.0.0.1,10.0.0.2,10.0.0.3", "")
	require.NoError(t, err)
	assert.Equal(t, addrsOf(fromList), addrsOf(fromFile))
}

func TestResolveFileMissing(t *testing.T) {
	e := &Expander{}

	_, err := e.ResolveFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeFileRead), "got %v", err)
}

func TestResolveFileBadLineDiscardsBatch(t *testing.T) {
	e := &Expander{}

	path := writeTargetFile(t, "10.0.0.1\nnot-a-host\n10.0.0.2\n")
	targets, err := e.ResolveFile(context.Background(), path, "")
	require.Error(t, err)
	assert.Nil(t, targets)
	assert.True(t, errors.IsCode(err, errors.CodeTargetInvalid), "got %v", err)
	assert.Contains(t, err.Error(), "not-a-host")
}

func TestResolveFileEmpty(t *testing.T) {
	e := &Expander{}

	path := writeTargetFile(t, "\n\n")
	_, err := e.ResolveFile(context.Background(), path, "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeEmptyTargets), "got %v", err)
}

func TestDedupe(t *testing.T) {
	e := &Expander{}

	targets, err := e.ResolveList(context.Background(), "10.0.0.1,10.0.0.0-10.0.0.2", "80")
	require.NoError(t, err)
	require.Len(t, targets, 4)

	deduped := Dedupe(targets)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0", "10.0.0.2"}, addrsOf(deduped))
	// First-seen origin wins: the bare literal came first.
	assert.Empty(t, deduped[0].Origin)
}
