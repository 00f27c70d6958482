package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/prnj-hooks/cmd/prnj-hooks/internal/clierr"
	"github.com/bartekus/prnj-hooks/internal/branch"
)

func TestClassify_Text(t *testing.T) {
	out, _, err := execute(t, &fakeRepo{}, "classify", "proj/PRNJ-12345-DEV-54321-implement-feature")
	require.NoError(t, err)

	want := "branch:     proj/PRNJ-12345-DEV-54321-implement-feature\n" +
		"kind:       project-dev\n" +
		"project id: PRNJ-12345\n" +
		"dev id:     DEV-54321\n" +
		"requires:   DEV-54321, PRNJ-12345\n"
	assert.Equal(t, want, out)
}

func TestClassify_JSON(t *testing.T) {
	out, _, err := execute(t, &fakeRepo{}, "classify", "--format", "json", "hotfix-PRNJ-777-fix-crash")
	require.NoError(t, err)

	var got branch.Classification
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, branch.KindHotfix, got.Kind)
	assert.Equal(t, "PRNJ-777", got.ProjectID)
	assert.True(t, got.RequiresProjectID)
	assert.False(t, got.RequiresDevID)
}

func TestClassify_YAMLCurrentBranch(t *testing.T) {
	out, _, err := execute(t, &fakeRepo{branch: "wip-anything"}, "classify", "--format", "yaml")
	require.NoError(t, err)

	var got branch.Classification
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "wip-anything", got.Name)
	assert.Equal(t, branch.KindWipOrHack, got.Kind)
	assert.Empty(t, got.Required())
}

func TestClassify_InvalidPrintsThenFails(t *testing.T) {
	out, _, err := execute(t, &fakeRepo{}, "classify", "feature/foo")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitMalformedBranch, clierr.ExitCodeOf(err))
	assert.Contains(t, out, "kind:       invalid\n")
	assert.Contains(t, out, "problems:   could not find PRNJ-number")
}

func TestClassify_ProjectParentFails(t *testing.T) {
	out, _, err := execute(t, &fakeRepo{}, "classify", "proj/PRNJ-12345-description")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitProjectParent, clierr.ExitCodeOf(err))
	assert.Contains(t, out, "kind:       project-parent\n")
}

func TestClassify_DetachedHead(t *testing.T) {
	out, _, err := execute(t, &fakeRepo{}, "classify")
	require.Error(t, err)
	assert.Equal(t, clierr.ExitBranchUnavailable, clierr.ExitCodeOf(err))
	assert.Empty(t, out)
}

func TestClassify_BadFormat(t *testing.T) {
	_, _, err := execute(t, &fakeRepo{}, "classify", "--format", "xml", "PRNJ-1-x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format: xml")
}
