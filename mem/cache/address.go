package cache

const addressBits = 32

// DecodedAddress is an address split into the fields the cache indexes by.
type DecodedAddress struct {
	Tag    uint32
	SetID  uint32
	Offset uint32
}

// AddressDecoder splits 32-bit addresses into tag, set index and block
// offset. The widths are fixed when the decoder is created.
type AddressDecoder struct {
	offsetBits uint
	indexBits  uint
}

// NewAddressDecoder creates a decoder for a cache with numSets sets of
// blockSize-byte blocks. Both must be powers of two.
func NewAddressDecoder(numSets, blockSize int) AddressDecoder {
	return AddressDecoder{
		offsetBits: log2(blockSize),
		indexBits:  log2(numSets),
	}
}

// OffsetBits returns the number of low bits that select a byte in a block.
func (d AddressDecoder) OffsetBits() uint {
	return d.offsetBits
}

// IndexBits returns the number of bits that select a set.
func (d AddressDecoder) IndexBits() uint {
	return d.indexBits
}

// TagBits returns the number of high bits kept as the tag.
func (d AddressDecoder) TagBits() uint {
	return addressBits - d.offsetBits - d.indexBits
}

// Decode splits addr. Go defines shifts by the full width as zero, so a
// geometry with no tag bits decodes every address to tag 0.
func (d AddressDecoder) Decode(addr uint32) DecodedAddress {
	return DecodedAddress{
		Offset: addr & mask(d.offsetBits),
		SetID:  (addr >> d.offsetBits) & mask(d.indexBits),
		Tag:    addr >> (d.offsetBits + d.indexBits),
	}
}

// Compose is the inverse of Decode.
func (d AddressDecoder) Compose(tag, setID, offset uint32) uint32 {
	return tag<<(d.offsetBits+d.indexBits) |
		(setID&mask(d.indexBits))<<d.offsetBits |
		offset&mask(d.offsetBits)
}

func mask(n uint) uint32 {
	return uint32(1)<<n - 1
}
