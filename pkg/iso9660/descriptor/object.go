package descriptor

import (
	"github.com/bgrewell/isoforge/pkg/consts"
	"github.com/bgrewell/isoforge/pkg/iso9660/info"
)

// sectorMarshaler is implemented by every fixed-size volume descriptor
// (Primary, Supplementary, Boot Record, Terminator). Their Marshal returns a
// [consts.ISO9660_SECTOR_SIZE]byte array rather than a slice, which is what
// the ECMA-119 layout requires but doesn't satisfy info.ImageObject directly.
type sectorMarshaler interface {
	Marshal() ([consts.ISO9660_SECTOR_SIZE]byte, error)
}

// descriptorObject adapts a sectorMarshaler onto info.ImageObject so volume
// descriptors can be listed alongside path tables, directory extents and
// file payloads when assembling an image's object list.
type descriptorObject struct {
	kind        string
	name        string
	description string
	properties  map[string]interface{}
	offset      int64
	src         sectorMarshaler
}

func (o *descriptorObject) Type() string                       { return o.kind }
func (o *descriptorObject) Name() string                       { return o.name }
func (o *descriptorObject) Description() string                { return o.description }
func (o *descriptorObject) Properties() map[string]interface{} { return o.properties }
func (o *descriptorObject) Offset() int64                      { return o.offset }
func (o *descriptorObject) Size() int                          { return consts.ISO9660_SECTOR_SIZE }
func (o *descriptorObject) GetObjects() []info.ImageObject     { return []info.ImageObject{o} }

func (o *descriptorObject) Marshal() ([]byte, error) {
	data, err := o.src.Marshal()
	if err != nil {
		return nil, err
	}
	return data[:], nil
}
