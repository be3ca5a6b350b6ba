package swf

// Twips is the fixed-point coordinate unit of the movie format (1/20 pixel)
type Twips = int32

// Color is an RGBA color; tags without an alpha channel decode with A=255
type Color struct {
	R, G, B, A uint8
}

// Rectangle is an axis-aligned bounding box in twips
type Rectangle struct {
	XMin, XMax, YMin, YMax Twips
}

// Matrix is a 2x3 affine transform. A..D are 16.16 fixed-point values on the
// wire; TX/TY are twips.
type Matrix struct {
	A, B, C, D float32
	TX, TY     Twips
}

// IdentityMatrix returns the identity transform
func IdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// ColorTransform adjusts a color channel-wise: out = in*Mult + Add.
// Mult terms are 8.8 fixed-point on the wire.
type ColorTransform struct {
	RMult, GMult, BMult, AMult float32
	RAdd, GAdd, BAdd, AAdd     int16
}

// IdentityColorTransform returns the no-op color transform
func IdentityColorTransform() ColorTransform {
	return ColorTransform{RMult: 1, GMult: 1, BMult: 1, AMult: 1}
}

// bitReader reads big-endian bit fields from a Reader. Bit fields in the
// movie format always start on a byte boundary and the reader re-aligns when
// the bitReader is dropped.
type bitReader struct {
	r       *Reader
	current uint8
	nbits   uint
}

func newBitReader(r *Reader) *bitReader {
	return &bitReader{r: r}
}

// ReadUB reads an unsigned bit field of n bits
func (b *bitReader) ReadUB(n uint) (uint32, error) {
	var value uint32
	for i := uint(0); i < n; i++ {
		if b.nbits == 0 {
			byteVal, err := b.r.ReadU8()
			if err != nil {
				return 0, err
			}
			b.current = byteVal
			b.nbits = 8
		}
		b.nbits--
		bit := (b.current >> b.nbits) & 1
		value = (value << 1) | uint32(bit)
	}
	return value, nil
}

// ReadSB reads a signed (two's complement) bit field of n bits
func (b *bitReader) ReadSB(n uint) (int32, error) {
	value, err := b.ReadUB(n)
	if err != nil {
		return 0, err
	}
	if n > 0 && value&(1<<(n-1)) != 0 {
		value |= ^uint32(0) << n
	}
	return int32(value), nil
}

// ReadFB reads a signed 16.16 fixed-point bit field of n bits
func (b *bitReader) ReadFB(n uint) (float32, error) {
	value, err := b.ReadSB(n)
	if err != nil {
		return 0, err
	}
	return float32(value) / 65536.0, nil
}

// ReadRectangle reads a bit-packed rectangle record
func (r *Reader) ReadRectangle() (Rectangle, error) {
	bits := newBitReader(r)
	nbits, err := bits.ReadUB(5)
	if err != nil {
		return Rectangle{}, err
	}
	var rect Rectangle
	fields := []*Twips{&rect.XMin, &rect.XMax, &rect.YMin, &rect.YMax}
	for _, f := range fields {
		v, err := bits.ReadSB(uint(nbits))
		if err != nil {
			return Rectangle{}, err
		}
		*f = v
	}
	return rect, nil
}

// ReadMatrix reads a bit-packed matrix record
func (r *Reader) ReadMatrix() (Matrix, error) {
	bits := newBitReader(r)
	m := IdentityMatrix()

	hasScale, err := bits.ReadUB(1)
	if err != nil {
		return m, err
	}
	if hasScale != 0 {
		n, err := bits.ReadUB(5)
		if err != nil {
			return m, err
		}
		if m.A, err = bits.ReadFB(uint(n)); err != nil {
			return m, err
		}
		if m.D, err = bits.ReadFB(uint(n)); err != nil {
			return m, err
		}
	}

	hasRotate, err := bits.ReadUB(1)
	if err != nil {
		return m, err
	}
	if hasRotate != 0 {
		n, err := bits.ReadUB(5)
		if err != nil {
			return m, err
		}
		if m.B, err = bits.ReadFB(uint(n)); err != nil {
			return m, err
		}
		if m.C, err = bits.ReadFB(uint(n)); err != nil {
			return m, err
		}
	}

	n, err := bits.ReadUB(5)
	if err != nil {
		return m, err
	}
	if m.TX, err = bits.ReadSB(uint(n)); err != nil {
		return m, err
	}
	if m.TY, err = bits.ReadSB(uint(n)); err != nil {
		return m, err
	}
	return m, nil
}

// ReadColorTransform reads a bit-packed color transform record.
// withAlpha selects the CXFORMWITHALPHA layout used by PlaceObject2 and up.
func (r *Reader) ReadColorTransform(withAlpha bool) (ColorTransform, error) {
	bits := newBitReader(r)
	ct := IdentityColorTransform()

	hasAdd, err := bits.ReadUB(1)
	if err != nil {
		return ct, err
	}
	hasMult, err := bits.ReadUB(1)
	if err != nil {
		return ct, err
	}
	nbits, err := bits.ReadUB(4)
	if err != nil {
		return ct, err
	}
	n := uint(nbits)

	numChannels := 3
	if withAlpha {
		numChannels = 4
	}

	if hasMult != 0 {
		mults := []*float32{&ct.RMult, &ct.GMult, &ct.BMult, &ct.AMult}
		for i := 0; i < numChannels; i++ {
			v, err := bits.ReadSB(n)
			if err != nil {
				return ct, err
			}
			*mults[i] = float32(v) / 256.0
		}
	}
	if hasAdd != 0 {
		adds := []*int16{&ct.RAdd, &ct.GAdd, &ct.BAdd, &ct.AAdd}
		for i := 0; i < numChannels; i++ {
			v, err := bits.ReadSB(n)
			if err != nil {
				return ct, err
			}
			*adds[i] = int16(v)
		}
	}
	return ct, nil
}

// ReadRGB reads a 3-byte color
func (r *Reader) ReadRGB() (Color, error) {
	b, err := r.ReadBytes(3)
	if err != nil {
		return Color{}, err
	}
	return Color{R: b[0], G: b[1], B: b[2], A: 255}, nil
}

// ReadRGBA reads a 4-byte color
func (r *Reader) ReadRGBA() (Color, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return Color{}, err
	}
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}
