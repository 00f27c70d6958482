package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/prnj-hooks/cmd/prnj-hooks/internal/clierr"
	"github.com/bartekus/prnj-hooks/internal/config"
)

func writeCommitMsg(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readCommitMsg(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCheckMessage_ProjectDevAppendsIDs(t *testing.T) {
	clearEnv(t)
	path := writeCommitMsg(t, "feat: add X\n\nSome body\n")

	out, errOut, err := execute(t, &fakeRepo{branch: "proj/PRNJ-12345-DEV-54321-implement-feature"}, "check-message", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, errOut)

	updated := readCommitMsg(t, path)
	assert.Contains(t, updated, "\nDEV-54321\nPRNJ-12345\n")
}

func TestCheckMessage_NonASCIIDescription(t *testing.T) {
	clearEnv(t)
	path := writeCommitMsg(t, "fix: rättning\n")

	_, _, err := execute(t, &fakeRepo{branch: "proj/PRNJ-1-DEV-2-åtgärd"}, "check-message", path)
	require.NoError(t, err)
	assert.Equal(t, "fix: rättning\n\nDEV-2\nPRNJ-1\n", readCommitMsg(t, path))
}

func TestCheck_ProjectParentBlocksCommits(t *testing.T) {
	clearEnv(t)
	repo := &fakeRepo{branch: "proj/PRNJ-12345-description"}
	path := writeCommitMsg(t, "feat: something\n\nBody\n")

	_, _, err := execute(t, repo, "check-branch", path)
	require.Error(t, err)
	assert.Equal(t, clierr.ExitProjectParent, clierr.ExitCodeOf(err))

	_, _, err = execute(t, repo, "check-message", path)
	require.Error(t, err)
	assert.Equal(t, clierr.ExitProjectParent, clierr.ExitCodeOf(err))
}

func TestCheckBranch_Malformed(t *testing.T) {
	clearEnv(t)
	path := writeCommitMsg(t, "x\n")

	_, _, err := execute(t, &fakeRepo{branch: "feature/foo"}, "check-branch", path, "message")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitMalformedBranch, clierr.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "could not find PRNJ-number")
}

func TestCheckBranch_MergeSourceSkips(t *testing.T) {
	clearEnv(t)
	path := writeCommitMsg(t, "Merge branch 'x'\n")

	_, _, err := execute(t, &fakeRepo{branch: "feature/foo"}, "check-branch", path, "merge")
	assert.NoError(t, err)

	t.Setenv(config.EnvMessageSource, "merge")
	_, _, err = execute(t, &fakeRepo{branch: "feature/foo"}, "check-message", path)
	assert.NoError(t, err)
}

func TestCheckBranch_MergeStateSkips(t *testing.T) {
	clearEnv(t)
	path := writeCommitMsg(t, "Merge branch 'x'\n")

	_, _, err := execute(t, &fakeRepo{branch: "feature/foo", merging: true}, "check-message", path)
	require.NoError(t, err)
	assert.Equal(t, "Merge branch 'x'\n", readCommitMsg(t, path))
}

func TestCheckMessage_AutoAppendDisabledByEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvAutoAppend, "0")
	path := writeCommitMsg(t, "refactor: clean up\n\nBody\n")
	repo := &fakeRepo{branch: "PRNJ-12345-refactor-modules"}

	_, _, err := execute(t, repo, "check-message", path)
	require.Error(t, err)
	assert.Equal(t, clierr.ExitMissingIdentifier, clierr.ExitCodeOf(err))
	assert.EqualError(t, err, "did not find PRNJ-12345 in commit message body")
	assert.Equal(t, "refactor: clean up\n\nBody\n", readCommitMsg(t, path))

	// The flag wins over the environment
	_, _, err = execute(t, repo, "check-message", "--auto-append", path)
	require.NoError(t, err)
	assert.Contains(t, readCommitMsg(t, path), "\nPRNJ-12345\n")
}

func TestCheckMessage_ConfigFile(t *testing.T) {
	clearEnv(t)
	top := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(top, config.FileName), []byte("auto_append: false\n"), 0o644))
	path := writeCommitMsg(t, "refactor: clean up\n\nBody\n")

	_, _, err := execute(t, &fakeRepo{branch: "PRNJ-1-x", topLevel: top}, "check-message", path)
	require.Error(t, err)
	assert.Equal(t, clierr.ExitMissingIdentifier, clierr.ExitCodeOf(err))

	// --config points elsewhere
	other := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(other, []byte("auto_append: true\n"), 0o644))
	_, _, err = execute(t, &fakeRepo{branch: "PRNJ-1-x", topLevel: top}, "--config", other, "check-message", path)
	require.NoError(t, err)
}

func TestCheckMessage_BadConfig(t *testing.T) {
	clearEnv(t)
	top := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(top, config.FileName), []byte("nope: 1\n"), 0o644))
	path := writeCommitMsg(t, "x\n")

	_, _, err := execute(t, &fakeRepo{branch: "PRNJ-1-x", topLevel: top}, "check-message", path)
	require.Error(t, err)
	assert.Equal(t, clierr.ExitFailure, clierr.ExitCodeOf(err))
}

func TestCheckBranch_DetachedHead(t *testing.T) {
	clearEnv(t)
	path := writeCommitMsg(t, "x\n")

	_, _, err := execute(t, &fakeRepo{}, "check-branch", path)
	require.Error(t, err)
	assert.Equal(t, clierr.ExitBranchUnavailable, clierr.ExitCodeOf(err))

	t.Setenv(config.EnvAllowEmptyBranch, "1")
	_, errOut, err := execute(t, &fakeRepo{}, "check-branch", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "skipping branch checks")
}

func TestCheckMessage_VerboseLogs(t *testing.T) {
	clearEnv(t)
	path := writeCommitMsg(t, "fix: thing\n")

	_, errOut, err := execute(t, &fakeRepo{branch: "PRNJ-9-thing"}, "-v", "check-message", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "classified branch")
	assert.Contains(t, errOut, "appended identifiers to commit message")
}

func TestCheckMessage_RequiresFileArg(t *testing.T) {
	_, _, err := execute(t, &fakeRepo{branch: "PRNJ-9-thing"}, "check-message")
	require.Error(t, err)
}
