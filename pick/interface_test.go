package pick_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sokinpui/pick.go/model"
	"github.com/sokinpui/pick.go/pick"
)

const (
	oldRust = "struct Point {\n    x: i32,\n    label: String,\n    y: i32,\n}\n\nfn main() {}\n"
	newRust = "struct Point {\n    x: i64,\n    label: String,\n    y: i64,\n}\n\nfn main() {}\n"
	mixed   = "struct Point {\n    x: i64,\n    label: String,\n    y: i32,\n}\n\nfn main() {}\n"
)

func TestAnalyzeGroupsChanges(t *testing.T) {
	file := pick.Analyze("point.rs", oldRust, newRust, pick.Config{})
	require.Len(t, file.Containers, 1)
	point := file.Containers[0]
	require.Equal(t, model.Struct(), point.Kind)
	require.Equal(t, "Point", point.Name)
	require.Len(t, point.Members, 2)
	require.Equal(t, "x", point.Members[0].Name)
	require.Equal(t, "y", point.Members[1].Name)
}

func TestAnalyzeFlat(t *testing.T) {
	file := pick.Analyze("point.rs", oldRust, newRust, pick.Config{Flat: true})
	require.Nil(t, file.Containers)
	require.Equal(t, oldRust, pick.Contents(file).Contents)
}

func TestSelectAndContents(t *testing.T) {
	commit := &model.Commit{Files: []model.File{pick.Analyze("point.rs", oldRust, newRust, pick.Config{})}}

	require.Equal(t, model.Checked, pick.Select(commit, pick.FileScope(0)))
	require.Equal(t, newRust, pick.Contents(commit.Files[0]).Contents)

	require.Equal(t, model.Unchecked, pick.Select(commit, pick.MemberScope(0, 0, 1)))
	require.True(t, commit.Files[0].Containers[0].Partial)
	require.Equal(t, mixed, pick.Contents(commit.Files[0]).Contents)

	require.Equal(t, model.Checked, pick.Select(commit, pick.ContainerScope(0, 0)))
	require.Equal(t, newRust, pick.Contents(commit.Files[0]).Contents)

	require.Equal(t, model.Unchecked, pick.Select(commit, pick.CommitScope()))
	require.Equal(t, oldRust, pick.Contents(commit.Files[0]).Contents)
}

func TestAnalyzeSelectAllAndModes(t *testing.T) {
	file := pick.Analyze("run.sh", "echo a\n", "echo b\n", pick.Config{
		SelectAll: true,
		OldMode:   model.FileModeDefault,
		NewMode:   model.FileModeExec,
	})
	got := pick.Contents(file)
	require.Equal(t, "echo b\n", got.Contents)
	require.Equal(t, model.FileModeExec, got.Mode)
}
