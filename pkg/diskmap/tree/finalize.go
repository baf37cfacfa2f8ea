// Package tree turns a raw scan result into the final nested entry tree:
// directory sizes aggregated bottom-up, children sorted by size, and
// human-readable sizes attached to every node.
package tree

import (
	"sort"

	"github.com/rfowler/diskmap/pkg/diskmap/types"
)

// frame is one directory on the traversal stack. A frame is visited twice:
// once to attach and push its children, once more to aggregate after they
// have all been finalized.
type frame struct {
	entry    *types.Entry
	expanded bool
}

// Finalize assembles and finalizes the result tree in a single pass over an
// explicit stack. Each directory path is expanded at most once; a directory
// reachable through more than one parent is kept in later parents as a
// size-zero leaf, so cyclic or aliased layouts cannot loop and no byte is
// counted twice.
func Finalize(result *types.ScanResult) *types.Entry {
	root := result.Entries[result.RootPath]
	if root == nil {
		return &types.Entry{
			Name:      result.RootPath,
			Path:      result.RootPath,
			Kind:      types.KindDirectory,
			HumanSize: types.FormatSize(0),
		}
	}

	if !root.IsDir() {
		root.HumanSize = types.FormatSize(root.Size)
		return root
	}

	visited := map[string]struct{}{root.Path: {}}
	stack := []frame{{entry: root}}

	for len(stack) > 0 {
		top := len(stack) - 1
		if stack[top].expanded {
			finalizeDir(stack[top].entry)
			stack = stack[:top]
			continue
		}
		stack[top].expanded = true
		stack = expand(stack, result, visited)
	}

	return root
}

// expand attaches the recorded children of the directory on top of the stack
// and pushes each newly seen child directory for its own expansion. An
// already-visited directory is attached as a fresh size-zero leaf instead, and
// never pushed.
func expand(stack []frame, result *types.ScanResult, visited map[string]struct{}) []frame {
	entry := stack[len(stack)-1].entry
	recorded := result.Children[entry.Path]
	if len(recorded) == 0 {
		return stack
	}

	children := make([]*types.Entry, 0, len(recorded))
	for _, child := range recorded {
		// The cache is authoritative: a directory placeholder may have
		// been replaced with an error entry after it was recorded here.
		if current := result.Entries[child.Path]; current != nil {
			child = current
		}
		if !child.IsDir() {
			child.HumanSize = types.FormatSize(child.Size)
			children = append(children, child)
			continue
		}

		if _, seen := visited[child.Path]; seen {
			children = append(children, &types.Entry{
				Name:      child.Name,
				Path:      child.Path,
				Kind:      types.KindDirectory,
				HumanSize: types.FormatSize(0),
				Owner:     child.Owner,
				Modified:  child.Modified,
				Accessed:  child.Accessed,
			})
			continue
		}
		visited[child.Path] = struct{}{}
		children = append(children, child)
		stack = append(stack, frame{entry: child})
	}
	entry.Children = children

	return stack
}

// finalizeDir sums the finalized children into the directory size and sorts
// them largest first. Equal sizes keep their encounter order.
func finalizeDir(dir *types.Entry) {
	var total int64
	for _, child := range dir.Children {
		total += child.Size
	}
	dir.Size = total

	sort.SliceStable(dir.Children, func(i, j int) bool {
		return dir.Children[i].Size > dir.Children[j].Size
	})
	dir.HumanSize = types.FormatSize(total)
}
