// Package tree builds the in-memory directory hierarchy that layout lays
// out on disk: it turns the flat list of FileSystemEntry values an image
// under construction has collected into a Node tree, synthesizes the
// implicit "." and ".." relationships ECMA-119 requires, and relocates any
// directory nested deeper than the standard's eight-level limit using the
// Rock Ridge RRIP relocation convention (a placeholder left behind under a
// CL entry, the real directory moved under "rr_moved" carrying a PL entry
// back to its true parent).
package tree

import (
	"path"
	"sort"
	"strings"

	"github.com/bgrewell/isoforge/pkg/filesystem"
)

// MaxDepth is the deepest a directory may be nested (root counts as depth
// 1) before Rock Ridge relocation is required. ECMA-119 6.8.2.1 limits the
// hierarchy to eight levels.
const MaxDepth = 8

// RelocatedDirName is the directory Rock Ridge relocates over-deep
// directories beneath, by RRIP convention.
const RelocatedDirName = "rr_moved"

// Node is one directory in the tree being laid out.
type Node struct {
	Name   string // "" for root
	Path   string // slash-separated path from the root, "" for root
	Parent *Node
	Children []*Node
	Files    []*filesystem.FileSystemEntry

	ExtentLBA     uint32
	ExtentSectors uint32 // directory data length, in sectors
	PathIndex     uint16 // 1-based index into the path table

	// Relocated is true for a directory RRIP has moved under rr_moved.
	Relocated bool
	// OriginalParent is where a relocated directory logically lives; a
	// placeholder record with a CL entry is left there pointing at this
	// node's real extent, and this node carries a PL entry pointing back.
	OriginalParent *Node
}

// Depth returns the node's distance from the root; the root itself is depth 1.
func (n *Node) Depth() int {
	d := 1
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Build constructs the directory tree implied by entries (which may list
// directories explicitly, only implicitly via a file's parent path, or
// both) and returns its root.
func Build(entries []*filesystem.FileSystemEntry) *Node {
	root := &Node{Name: "", Path: ""}
	dirs := map[string]*Node{"": root}

	for _, e := range entries {
		if e.IsDir {
			ensureDir(e.FullPath, dirs, root)
			continue
		}
		dirPath := path.Dir(e.FullPath)
		if dirPath == "." {
			dirPath = ""
		}
		parent := ensureDir(dirPath, dirs, root)
		parent.Files = append(parent.Files, e)
	}

	return root
}

// ensureDir creates (if needed) every directory on the way down to
// dirPath, returning the node for dirPath itself.
func ensureDir(dirPath string, dirs map[string]*Node, root *Node) *Node {
	if n, ok := dirs[dirPath]; ok {
		return n
	}
	if dirPath == "" {
		return root
	}
	parentPath := path.Dir(dirPath)
	if parentPath == "." {
		parentPath = ""
	}
	parent := ensureDir(parentPath, dirs, root)
	n := &Node{Path: dirPath, Name: path.Base(dirPath), Parent: parent}
	dirs[dirPath] = n
	parent.Children = append(parent.Children, n)
	return n
}

// Relocate moves any directory nested deeper than MaxDepth to be a direct
// child of a synthesized "rr_moved" directory under root, per the Rock
// Ridge RRIP relocation convention. It returns every node that was moved;
// layout is responsible for leaving a CL-bearing placeholder record in
// each moved node's OriginalParent and a PL entry in the moved node itself.
func Relocate(root *Node) []*Node {
	var overDeep []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.Depth() > MaxDepth {
				overDeep = append(overDeep, c)
			}
			walk(c)
		}
	}
	walk(root)

	if len(overDeep) == 0 {
		return nil
	}

	movedRoot := findOrCreateChild(root, RelocatedDirName)
	for _, n := range overDeep {
		detach(n)
		n.OriginalParent = n.Parent
		n.Relocated = true
		n.Parent = movedRoot
		movedRoot.Children = append(movedRoot.Children, n)
	}
	return overDeep
}

func findOrCreateChild(parent *Node, name string) *Node {
	for _, c := range parent.Children {
		if c.Name == name {
			return c
		}
	}
	n := &Node{Name: name, Path: joinPath(parent.Path, name), Parent: parent}
	parent.Children = append(parent.Children, n)
	return n
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func detach(n *Node) {
	if n.Parent == nil {
		return
	}
	siblings := n.Parent.Children
	for i, c := range siblings {
		if c == n {
			n.Parent.Children = append(siblings[:i], siblings[i+1:]...)
			return
		}
	}
}

// Flatten returns every directory node, root first, each directory
// preceded by its own parent and with siblings ordered by their upcased
// ISO9660 identifier (matching on-disk directory record order), assigning
// each a 1-based path table index as it goes.
func Flatten(root *Node) []*Node {
	var order []*Node
	queue := []*Node{root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		sort.Slice(n.Children, func(i, j int) bool {
			return strings.ToUpper(n.Children[i].Name) < strings.ToUpper(n.Children[j].Name)
		})
		queue = append(queue, n.Children...)
	}
	for i, n := range order {
		n.PathIndex = uint16(i + 1)
	}
	return order
}
