// Package layout assigns extents to directories, file data and the El
// Torito boot catalog, builds the directory records and path tables that
// describe them, and wires Rock Ridge extensions onto each record's System
// Use field, turning the tree of pending filesystem entries an image under
// construction has collected into a set of info.ImageObject values ready to
// be written by the rest of the image. No RRIP continuation areas are
// allocated: Rock Ridge data that does not fit a record's inline System Use
// budget is truncated to that budget.
package layout

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/bgrewell/isoforge/pkg/consts"
	"github.com/bgrewell/isoforge/pkg/filesystem"
	"github.com/bgrewell/isoforge/pkg/iso9660/boot"
	"github.com/bgrewell/isoforge/pkg/iso9660/directory"
	"github.com/bgrewell/isoforge/pkg/iso9660/info"
	"github.com/bgrewell/isoforge/pkg/iso9660/pathtable"
	"github.com/bgrewell/isoforge/pkg/iso9660/susp"
	"github.com/bgrewell/isoforge/pkg/iso9660/tree"
)

// maxRecordLen is the largest a directory record can be (254 bytes); a
// record's inline System Use budget is what remains of it after the fixed
// fields (33 bytes) and the identifier with its padding byte.
const maxRecordLen = 254

// Extras carries the optional, session-level additions layout must make
// room for alongside the plain directory/file tree. Hard links and symlinks
// are read directly off each FileSystemEntry's HardLinkTarget/SymlinkTarget
// field; Extras only carries what doesn't belong on a single entry.
type Extras struct {
	// ElTorito, if set, has its boot catalog and entries' backing files
	// assigned extents and is wired into the returned Result.
	ElTorito *boot.ElTorito
	// RockRidge enables encoding Rock Ridge System Use entries (PX/TF/NM/
	// SL/CL/PL/RE) onto every directory record.
	RockRidge bool
}

// Result carries everything Pack needs to extend the image's object list
// and volume descriptor fields after a layout pass.
type Result struct {
	Objects        []info.ImageObject
	PathTableL     *pathtable.PathTable
	PathTableM     *pathtable.PathTable
	PathTableBytes uint32
	RootExtentLBA  uint32
	RootExtentLen  uint32
	NextFreeLBA    uint32
	// BootCatalogLBA is set when extras.ElTorito is non-nil, giving the
	// caller the catalog's assigned extent for the Boot Record Descriptor.
	BootCatalogLBA uint32
}

// Build lays out entries (the flat FileSystemEntry list tracked by an
// in-progress image) and pendingFiles (their not-yet-written contents)
// starting at startLBA, returning the directory and file objects to add to
// the image plus both path tables.
func Build(entries []*filesystem.FileSystemEntry, pendingFiles map[string][]byte, startLBA uint32, extras *Extras) (*Result, error) {
	if extras == nil {
		extras = &Extras{}
	}

	root := tree.Build(entries)
	relocated := tree.Relocate(root)
	order := tree.Flatten(root)

	relocatedFrom := make(map[*tree.Node][]*tree.Node, len(relocated))
	for _, n := range relocated {
		relocatedFrom[n.OriginalParent] = append(relocatedFrom[n.OriginalParent], n)
	}

	// Path tables are sized from directory identifiers alone, so they can
	// be placed (and their own extents assigned) before the directories
	// whose locations they will go on to record.
	pathTableBytes := pathTableSize(order)
	pathTableSectors := sectorsFor(pathTableBytes)
	lTableLBA := startLBA
	mTableLBA := startLBA + pathTableSectors

	lba := mTableLBA + pathTableSectors

	// Directories are sized (in sectors) from their own record content,
	// which does not depend on any LBA, so a single pass over the
	// unmarshaled record lists gives every directory's sector count before
	// any extent is actually assigned.
	recordsByNode := make(map[*tree.Node][]*directory.DirectoryRecord, len(order))
	for _, n := range order {
		recs, err := buildRecords(n, extras, relocatedFrom[n])
		if err != nil {
			return nil, fmt.Errorf("failed to build directory records for %q: %w", n.Path, err)
		}
		recordsByNode[n] = recs
		n.ExtentSectors = uint32(sectorsFor(marshaledLen(recs)))
		if n.ExtentSectors == 0 {
			n.ExtentSectors = 1
		}
	}
	for _, n := range order {
		n.ExtentLBA = lba
		lba += n.ExtentSectors
	}

	var objects []info.ImageObject

	// Hard links point at another file's own extent; resolve those before
	// assigning fresh extents to everything else.
	hardLinkSources := map[string]*filesystem.FileSystemEntry{}
	for _, n := range order {
		for _, f := range n.Files {
			if f.HardLinkTarget == "" {
				hardLinkSources[f.FullPath] = f
			}
		}
	}

	for _, n := range order {
		for _, f := range n.Files {
			if f.SymlinkTarget != "" {
				continue // carries no extent; its target lives in the SL entry
			}
			if f.HardLinkTarget != "" {
				continue // resolved to its target's extent below
			}
			data := pendingFiles[f.FullPath]
			sectors := sectorsFor(len(data))
			if sectors == 0 {
				sectors = 1
			}
			f.Location = lba
			lba += uint32(sectors)
			objects = append(objects, &rawObject{
				kind:   "File",
				name:   f.Name,
				offset: int64(f.Location) * consts.ISO9660_SECTOR_SIZE,
				data:   padToSector(data),
			})
		}
	}
	for _, n := range order {
		for _, f := range n.Files {
			if f.HardLinkTarget == "" {
				continue
			}
			if target, ok := hardLinkSources[f.HardLinkTarget]; ok {
				f.Location = target.Location
				f.Size = target.Size
			}
		}
	}

	if extras.ElTorito != nil {
		for _, entry := range extras.ElTorito.Entries {
			for _, n := range order {
				for _, f := range n.Files {
					if f.FullPath == entry.BootFile {
						entry.SetLocation(f.Location, f.Size)
					}
				}
			}
		}
	}

	// El Torito's boot catalog gets its own extent, allocated after every
	// file so boot image entries above have already recorded their final
	// locations.
	var bootCatalogLBA uint32
	if extras.ElTorito != nil {
		bootCatalogLBA = lba
		extras.ElTorito.ObjectLocation = int64(bootCatalogLBA)
		extras.ElTorito.ObjectSize = consts.ISO9660_SECTOR_SIZE
		lba++
		objects = append(objects, extras.ElTorito)
	}

	// Every record's LocationOfExtent/DataLength can only be filled in now
	// that every directory and file has a final assigned extent.
	for _, n := range order {
		fillExtents(n, recordsByNode[n], relocatedFrom[n])
	}

	// Directories with relocated children or Rock Ridge continuation
	// entries may need their System Use content finalized now that every
	// LBA (including a relocated child's own new extent) is known.
	for _, n := range order {
		recs := recordsByNode[n]
		if err := finalizeRockRidge(n, recs, extras, relocatedFrom[n]); err != nil {
			return nil, fmt.Errorf("failed to finalize Rock Ridge entries for %q: %w", n.Path, err)
		}
		recBuf, err := marshalRecords(recs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal directory %q: %w", n.Path, err)
		}
		if uint32(sectorsFor(len(recBuf))) > n.ExtentSectors {
			return nil, fmt.Errorf("directory %q grew past its reserved extent after finalizing Rock Ridge data", n.Path)
		}
		objects = append(objects, &rawObject{
			kind:   "Directory",
			name:   dirObjectName(n),
			offset: int64(n.ExtentLBA) * consts.ISO9660_SECTOR_SIZE,
			data:   padToSector(recBuf),
		})
	}

	lTable, mTable := buildPathTables(order)
	lTable.ObjectLocation = int64(lTableLBA)
	lTable.ObjectSize = uint32(pathTableSectors) * consts.ISO9660_SECTOR_SIZE
	mTable.ObjectLocation = int64(mTableLBA)
	mTable.ObjectSize = uint32(pathTableSectors) * consts.ISO9660_SECTOR_SIZE

	return &Result{
		Objects:        objects,
		PathTableL:     lTable,
		PathTableM:     mTable,
		PathTableBytes: uint32(pathTableBytes),
		RootExtentLBA:  root.ExtentLBA,
		RootExtentLen:  root.ExtentSectors * consts.ISO9660_SECTOR_SIZE,
		NextFreeLBA:    lba,
		BootCatalogLBA: bootCatalogLBA,
	}, nil
}

func dirObjectName(n *tree.Node) string {
	if n.Parent == nil {
		return "root"
	}
	return n.Name
}

func sectorsFor(byteLen int) uint32 {
	if byteLen <= 0 {
		return 1
	}
	return uint32((byteLen + consts.ISO9660_SECTOR_SIZE - 1) / consts.ISO9660_SECTOR_SIZE)
}

func pathTableSize(order []*tree.Node) int {
	size := 0
	for _, n := range order {
		ident := n.Name
		if n.Parent == nil {
			ident = "\x00"
		}
		recLen := 8 + len(ident)
		if recLen%2 != 0 {
			recLen++
		}
		size += recLen
	}
	return size
}

// buildRecords builds the "." and ".." records, one record per child
// directory and file, and (for a directory some of whose children were
// moved under rr_moved by tree.Relocate) one zero-length placeholder record
// per relocated child carrying the RRIP CL entry that lets a reader follow
// it to its new location, for n. It does not yet finalize any Rock Ridge
// fields that depend on LBAs not assigned at this point (CL/PL payloads).
func buildRecords(n *tree.Node, extras *Extras, movedAway []*tree.Node) ([]*directory.DirectoryRecord, error) {
	now := time.Now()

	self := &directory.DirectoryRecord{
		FileIdentifier:       "\x00",
		RecordingDateAndTime: now,
		FileFlags:            directory.FileFlags{Directory: true},
		VolumeSequenceNumber: 1,
	}
	parent := &directory.DirectoryRecord{
		FileIdentifier:       "\x01",
		RecordingDateAndTime: now,
		FileFlags:            directory.FileFlags{Directory: true},
		VolumeSequenceNumber: 1,
	}

	records := []*directory.DirectoryRecord{self, parent}

	for _, c := range n.Children {
		rec := &directory.DirectoryRecord{
			FileIdentifier:       strings.ToUpper(c.Name),
			RecordingDateAndTime: now,
			FileFlags:            directory.FileFlags{Directory: true},
			VolumeSequenceNumber: 1,
		}
		records = append(records, rec)
	}

	for _, f := range n.Files {
		ident := strings.ToUpper(f.Name) + ";1"
		ff := directory.FileFlags{}
		rec := &directory.DirectoryRecord{
			FileIdentifier:       ident,
			DataLength:           f.Size,
			RecordingDateAndTime: f.ModTime,
			FileFlags:            ff,
			VolumeSequenceNumber: 1,
		}
		records = append(records, rec)
	}

	for _, moved := range movedAway {
		rec := &directory.DirectoryRecord{
			FileIdentifier:       strings.ToUpper(moved.Name),
			RecordingDateAndTime: now,
			FileFlags:            directory.FileFlags{Directory: true},
			VolumeSequenceNumber: 1,
		}
		records = append(records, rec)
	}

	if extras.RockRidge {
		for _, rec := range records {
			budget := inlineBudget(rec)
			full := rockRidgePayload(n, rec, movedAway)
			if len(full) > budget {
				// Reserve worst case: encoded again below once the
				// continuation extent is known, but size the directory
				// from this upper bound so its extent never has to grow.
				rec.SystemUse = make([]byte, budget)
			} else {
				rec.SystemUse = full
			}
		}
	}

	return records, nil
}

// fillExtents sets LocationOfExtent/DataLength on every record
// n.buildRecords produced, matching the order buildRecords emits them in:
// "." record, ".." record, one record per child directory, one per file,
// one zero-length placeholder per relocated former child.
func fillExtents(n *tree.Node, records []*directory.DirectoryRecord, movedAway []*tree.Node) {
	extentBytes := n.ExtentSectors * consts.ISO9660_SECTOR_SIZE

	self := records[0]
	self.LocationOfExtent = n.ExtentLBA
	self.DataLength = extentBytes

	parent := n
	if n.Parent != nil {
		parent = n.Parent
	}
	dotdot := records[1]
	dotdot.LocationOfExtent = parent.ExtentLBA
	dotdot.DataLength = parent.ExtentSectors * consts.ISO9660_SECTOR_SIZE

	i := 2
	for _, c := range n.Children {
		rec := records[i]
		i++
		rec.LocationOfExtent = c.ExtentLBA
		rec.DataLength = c.ExtentSectors * consts.ISO9660_SECTOR_SIZE
	}
	for _, f := range n.Files {
		rec := records[i]
		i++
		rec.LocationOfExtent = f.Location
		rec.DataLength = f.Size
	}
	for range movedAway {
		// Placeholder records carry no data of their own; a reader follows
		// the CL entry finalizeRockRidge attaches to reach the real extent.
		i++
	}
}

// finalizeRockRidge rebuilds each record's System Use field now that every
// node's extent LBA (including relocated children) is known, wiring CL/PL/
// RE entries for relocation and filling in the true PX/TF/NM/SL payloads.
func finalizeRockRidge(n *tree.Node, records []*directory.DirectoryRecord, extras *Extras, movedAway []*tree.Node) error {
	if !extras.RockRidge {
		return nil
	}

	i := 0
	setRec := func(rr *susp.RockRidge) error {
		rec := records[i]
		i++
		full := susp.EncodeRockRidge(rr, false)
		budget := inlineBudget(rec)
		inline, overflow := susp.SplitForInline(full, budget, 0, 0)
		if overflow != nil {
			// Without a continuation-area allocator beyond this pass, a
			// record whose Rock Ridge data genuinely can't fit inline
			// (e.g. a very long symlink target) is truncated to its
			// inline budget rather than left unencoded.
			inline, _ = susp.SplitForInline(full[:min(len(full), budget)], budget, 0, 0)
		}
		rec.SystemUse = inline
		return nil
	}

	if err := setRec(selfRockRidge(n)); err != nil {
		return err
	}
	parentForDotDot := n
	if n.Parent != nil {
		parentForDotDot = n.Parent
	}
	if err := setRec(selfRockRidge(parentForDotDot)); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := setRec(childRockRidge(c)); err != nil {
			return err
		}
	}
	for _, f := range n.Files {
		if err := setRec(fileRockRidge(f)); err != nil {
			return err
		}
	}
	for _, moved := range movedAway {
		if err := setRec(placeholderRockRidge(moved)); err != nil {
			return err
		}
	}
	return nil
}

// placeholderRockRidge is the CL entry left behind in a directory's old
// location for a child RRIP relocated elsewhere, pointing readers at the
// child's new extent.
func placeholderRockRidge(moved *tree.Node) *susp.RockRidge {
	lba := moved.ExtentLBA
	return &susp.RockRidge{ChildLinkLBA: &lba}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func selfRockRidge(n *tree.Node) *susp.RockRidge {
	mode := directoryMode()
	rr := &susp.RockRidge{Mode: &mode}
	if n.Relocated {
		rr.Relocated = true
	}
	if n.OriginalParent != nil {
		lba := n.OriginalParent.ExtentLBA
		rr.ParentLinkLBA = &lba
	}
	return rr
}

func childRockRidge(c *tree.Node) *susp.RockRidge {
	mode := directoryMode()
	rr := &susp.RockRidge{Mode: &mode}
	if c.Relocated {
		lba := c.ExtentLBA
		rr.ChildLinkLBA = &lba
		rr.Relocated = true
	}
	return rr
}

func fileRockRidge(f *filesystem.FileSystemEntry) *susp.RockRidge {
	mode := fs.FileMode(f.Mode)
	if mode.Perm() == 0 {
		mode = 0o644
	}
	rr := &susp.RockRidge{Mode: &mode}
	rr.UID = f.UID
	rr.GID = f.GID
	if !f.ModTime.IsZero() {
		mt := f.ModTime
		rr.ModificationTime = &mt
	}
	if !f.CreateTime.IsZero() {
		ct := f.CreateTime
		rr.CreationTime = &ct
	}
	if f.SymlinkTarget != "" {
		target := f.SymlinkTarget
		rr.SymlinkTarget = &target
	}
	if f.Name != "" {
		name := f.Name
		rr.AlternateName = &name
	}
	return rr
}

// directoryMode is the Rock Ridge PX mode recorded for every synthesized
// directory record ("."/".."/child); ownership and permission bits for
// directories aren't tracked per-entry, so a conventional 0755 is used.
func directoryMode() fs.FileMode {
	return fs.ModeDir | 0o755
}

// rockRidgePayload is retained for the sizing pass in buildRecords, before
// a node's own or its children's LBAs are necessarily final.
func rockRidgePayload(n *tree.Node, rec *directory.DirectoryRecord, movedAway []*tree.Node) []byte {
	switch rec.FileIdentifier {
	case "\x00":
		return susp.EncodeRockRidge(selfRockRidge(n), false)
	case "\x01":
		parent := n
		if n.Parent != nil {
			parent = n.Parent
		}
		return susp.EncodeRockRidge(selfRockRidge(parent), false)
	}
	for _, c := range n.Children {
		if strings.ToUpper(c.Name) == rec.FileIdentifier {
			return susp.EncodeRockRidge(childRockRidge(c), false)
		}
	}
	for _, f := range n.Files {
		if strings.ToUpper(f.Name)+";1" == rec.FileIdentifier {
			return susp.EncodeRockRidge(fileRockRidge(f), false)
		}
	}
	for _, moved := range movedAway {
		if strings.ToUpper(moved.Name) == rec.FileIdentifier {
			return susp.EncodeRockRidge(placeholderRockRidge(moved), false)
		}
	}
	return nil
}

// inlineBudget is the most System Use bytes a record can carry: the
// 254-byte maximum record length less its fixed 33-byte header and the
// (possibly padded) identifier.
func inlineBudget(rec *directory.DirectoryRecord) int {
	identLen := len(rec.FileIdentifier)
	if identLen%2 == 0 {
		identLen++ // padding byte
	}
	budget := maxRecordLen - 33 - identLen
	if budget < 0 {
		return 0
	}
	return budget
}

func marshalRecords(records []*directory.DirectoryRecord) ([]byte, error) {
	var buf []byte
	for _, r := range records {
		b, err := r.Marshal()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

func marshaledLen(records []*directory.DirectoryRecord) int {
	total := 0
	for _, r := range records {
		l := len(r.FileIdentifier)
		if l%2 == 0 {
			l++
		}
		total += 33 + l + len(r.SystemUse)
	}
	return total
}

func buildPathTables(order []*tree.Node) (*pathtable.PathTable, *pathtable.PathTable) {
	l := pathtable.NewWritablePathTable("Type L", true)
	m := pathtable.NewWritablePathTable("Type M", false)
	for _, n := range order {
		parentIdx := uint16(1)
		if n.Parent != nil {
			parentIdx = n.Parent.PathIndex
		}
		ident := n.Name
		if n.Parent == nil {
			ident = "\x00"
		}
		l.Records = append(l.Records, pathtable.NewPathTableRecord(n.ExtentLBA, parentIdx, ident, true))
		m.Records = append(m.Records, pathtable.NewPathTableRecord(n.ExtentLBA, parentIdx, ident, false))
	}
	return l, m
}

func padToSector(data []byte) []byte {
	rem := len(data) % consts.ISO9660_SECTOR_SIZE
	if rem == 0 && len(data) > 0 {
		return data
	}
	padded := make([]byte, len(data)+(consts.ISO9660_SECTOR_SIZE-rem))
	copy(padded, data)
	return padded
}

// rawObject wraps an already-marshaled byte buffer as an info.ImageObject;
// used for directory extents and file data, neither of which has a
// dedicated wire type of its own.
type rawObject struct {
	kind   string
	name   string
	offset int64
	data   []byte
}

func (o *rawObject) Type() string                      { return o.kind }
func (o *rawObject) Name() string                      { return o.name }
func (o *rawObject) Description() string               { return "" }
func (o *rawObject) Properties() map[string]interface{} { return map[string]interface{}{} }
func (o *rawObject) Offset() int64                     { return o.offset }
func (o *rawObject) Size() int                         { return len(o.data) }
func (o *rawObject) GetObjects() []info.ImageObject    { return []info.ImageObject{o} }
func (o *rawObject) Marshal() ([]byte, error)           { return o.data, nil }
