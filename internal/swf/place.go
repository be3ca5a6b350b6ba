package swf

import "fmt"

// PlaceObjectAction distinguishes what a place-object tag does to the slot
// at its depth.
type PlaceObjectAction uint8

const (
	// PlaceActionPlace creates a new child from a character id
	PlaceActionPlace PlaceObjectAction = iota
	// PlaceActionModify updates the child already at the depth
	PlaceActionModify
	// PlaceActionReplace swaps the character while keeping display properties
	PlaceActionReplace
)

// PlaceObject is the decoded form of PlaceObject/2/3/4. Optional fields are
// nil when the tag did not carry them.
type PlaceObject struct {
	Version     uint8
	Action      PlaceObjectAction
	CharacterID CharacterID // valid for Place and Replace
	Depth       Depth

	Matrix          *Matrix
	ColorTransform  *ColorTransform
	Ratio           *uint16
	Name            *string
	ClipDepth       *uint16
	ClassName       *string
	BlendMode       *uint8
	BackgroundColor *Color
	ClipActions     []ClipAction
}

// ID returns the character id, or 0 for a pure modify
func (p *PlaceObject) ID() CharacterID {
	if p.Action == PlaceActionModify {
		return 0
	}
	return p.CharacterID
}

// ReadPlaceObject reads a version 1 PlaceObject tag body of the given length
func (r *Reader) ReadPlaceObject(tagLength int) (*PlaceObject, error) {
	end := r.Position() + tagLength
	id, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	depth, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	matrix, err := r.ReadMatrix()
	if err != nil {
		return nil, err
	}
	place := &PlaceObject{
		Version:     1,
		Action:      PlaceActionPlace,
		CharacterID: id,
		Depth:       Depth(depth),
		Matrix:      &matrix,
	}
	// A trailing color transform is optional in v1.
	if r.Position() < end {
		ct, err := r.ReadColorTransform(false)
		if err != nil {
			return nil, err
		}
		place.ColorTransform = &ct
	}
	return place, nil
}

// PlaceObject2/3 flag bits
const (
	placeFlagMove           = 1 << 0
	placeFlagHasCharacter   = 1 << 1
	placeFlagHasMatrix      = 1 << 2
	placeFlagHasColor       = 1 << 3
	placeFlagHasRatio       = 1 << 4
	placeFlagHasName        = 1 << 5
	placeFlagHasClipDepth   = 1 << 6
	placeFlagHasClipActions = 1 << 7

	placeFlag3HasFilters       = 1 << 0
	placeFlag3HasBlendMode     = 1 << 1
	placeFlag3HasCacheAsBitmap = 1 << 2
	placeFlag3HasClassName     = 1 << 3
	placeFlag3HasImage         = 1 << 4
	placeFlag3HasVisible       = 1 << 5
	placeFlag3OpaqueBackground = 1 << 6
)

// ReadPlaceObject2Or3 reads a PlaceObject2, PlaceObject3, or PlaceObject4 tag
// body. version is 2, 3, or 4.
func (r *Reader) ReadPlaceObject2Or3(version uint8) (*PlaceObject, error) {
	flags, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	var flags3 uint8
	if version >= 3 {
		if flags3, err = r.ReadU8(); err != nil {
			return nil, err
		}
	}
	depth, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	place := &PlaceObject{Version: version, Depth: Depth(depth)}
	switch {
	case flags&placeFlagHasCharacter != 0 && flags&placeFlagMove != 0:
		place.Action = PlaceActionReplace
	case flags&placeFlagHasCharacter != 0:
		place.Action = PlaceActionPlace
	default:
		place.Action = PlaceActionModify
	}

	if version >= 3 && flags3&placeFlag3HasClassName != 0 {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		place.ClassName = &name
	}
	if flags&placeFlagHasCharacter != 0 {
		if place.CharacterID, err = r.ReadU16(); err != nil {
			return nil, err
		}
	}
	if flags&placeFlagHasMatrix != 0 {
		m, err := r.ReadMatrix()
		if err != nil {
			return nil, err
		}
		place.Matrix = &m
	}
	if flags&placeFlagHasColor != 0 {
		ct, err := r.ReadColorTransform(true)
		if err != nil {
			return nil, err
		}
		place.ColorTransform = &ct
	}
	if flags&placeFlagHasRatio != 0 {
		ratio, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		place.Ratio = &ratio
	}
	if flags&placeFlagHasName != 0 {
		name, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		place.Name = &name
	}
	if flags&placeFlagHasClipDepth != 0 {
		clipDepth, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		place.ClipDepth = &clipDepth
	}
	if version >= 3 {
		if flags3&placeFlag3HasFilters != 0 {
			if err := r.skipFilterList(); err != nil {
				return nil, err
			}
		}
		if flags3&placeFlag3HasBlendMode != 0 {
			mode, err := r.ReadU8()
			if err != nil {
				return nil, err
			}
			place.BlendMode = &mode
		}
		if flags3&placeFlag3HasCacheAsBitmap != 0 {
			if _, err := r.ReadU8(); err != nil {
				return nil, err
			}
		}
		if flags3&placeFlag3HasVisible != 0 {
			if _, err := r.ReadU8(); err != nil {
				return nil, err
			}
		}
		if flags3&placeFlag3OpaqueBackground != 0 {
			color, err := r.ReadRGBA()
			if err != nil {
				return nil, err
			}
			place.BackgroundColor = &color
		}
	}
	if flags&placeFlagHasClipActions != 0 {
		actions, err := r.ReadClipActions()
		if err != nil {
			return nil, err
		}
		place.ClipActions = actions
	}
	return place, nil
}

// skipFilterList steps over a filter list record without decoding it.
// Filter rendering is not a timeline concern.
func (r *Reader) skipFilterList() error {
	count, err := r.ReadU8()
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		filterID, err := r.ReadU8()
		if err != nil {
			return err
		}
		size, ok := filterFixedSizes[filterID]
		if !ok {
			return fmt.Errorf("unknown filter id %d", filterID)
		}
		if filterID == 5 { // convolution carries a variable matrix
			cols, err := r.ReadU8()
			if err != nil {
				return err
			}
			rows, err := r.ReadU8()
			if err != nil {
				return err
			}
			size = 2*4 + int(cols)*int(rows)*4 + 4 + 1
		} else if filterID == 4 || filterID == 7 { // gradient glow/bevel
			n, err := r.ReadU8()
			if err != nil {
				return err
			}
			size = int(n)*5 + 19
		}
		if _, err := r.ReadBytes(size); err != nil {
			return err
		}
	}
	return nil
}

// Fixed body sizes per filter id (after the id byte); variable-size filters
// are corrected in skipFilterList.
var filterFixedSizes = map[uint8]int{
	0: 23, // drop shadow
	1: 9,  // blur
	2: 15, // glow
	3: 27, // bevel
	4: 0,  // gradient glow (variable)
	5: 0,  // convolution (variable)
	6: 80, // color matrix
	7: 0,  // gradient bevel (variable)
}

// RemoveObject is the decoded form of RemoveObject/RemoveObject2
type RemoveObject struct {
	Depth       Depth
	CharacterID *CharacterID // v1 only
}

// ReadRemoveObject1 reads a RemoveObject tag body
func (r *Reader) ReadRemoveObject1() (*RemoveObject, error) {
	id, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	depth, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return &RemoveObject{Depth: Depth(depth), CharacterID: &id}, nil
}

// ReadRemoveObject2 reads a RemoveObject2 tag body
func (r *Reader) ReadRemoveObject2() (*RemoveObject, error) {
	depth, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return &RemoveObject{Depth: Depth(depth)}, nil
}
