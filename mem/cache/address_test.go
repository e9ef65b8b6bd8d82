package cache

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AddressDecoder", func() {
	It("should derive bit widths from the geometry", func() {
		d := NewAddressDecoder(256, 16)

		Expect(d.OffsetBits()).To(Equal(uint(4)))
		Expect(d.IndexBits()).To(Equal(uint(8)))
		Expect(d.TagBits()).To(Equal(uint(20)))
	})

	It("should split an address", func() {
		d := NewAddressDecoder(256, 16)

		decoded := d.Decode(0x1234_5678)

		Expect(decoded.Offset).To(Equal(uint32(0x8)))
		Expect(decoded.SetID).To(Equal(uint32(0x67)))
		Expect(decoded.Tag).To(Equal(uint32(0x12345)))
	})

	It("should map everything to set 0 with a single set", func() {
		d := NewAddressDecoder(1, 16)

		Expect(d.Decode(0x00).SetID).To(BeZero())
		Expect(d.Decode(0x10).SetID).To(BeZero())
		Expect(d.Decode(0x20).Tag).To(Equal(uint32(2)))
	})

	It("should give tag 0 when index and offset use all 32 bits", func() {
		d := NewAddressDecoder(1<<28, 16)

		decoded := d.Decode(0xffff_ffff)

		Expect(d.TagBits()).To(BeZero())
		Expect(decoded.Tag).To(BeZero())
		Expect(decoded.SetID).To(Equal(uint32(0x0fff_ffff)))
		Expect(decoded.Offset).To(Equal(uint32(0xf)))
	})

	It("should reassemble the original address", func() {
		r := rand.New(rand.NewSource(42))
		geometries := [][2]int{
			{1, 4}, {1, 16}, {2, 4}, {256, 16}, {1024, 64}, {1 << 20, 4096},
		}

		for _, g := range geometries {
			d := NewAddressDecoder(g[0], g[1])
			addrs := []uint32{0, 1, 0xffff_ffff, 0x8000_0000}
			for i := 0; i < 200; i++ {
				addrs = append(addrs, r.Uint32())
			}

			for _, a := range addrs {
				decoded := d.Decode(a)
				Expect(d.Compose(decoded.Tag, decoded.SetID, decoded.Offset)).
					To(Equal(a), "sets=%d block=%d addr=%#x", g[0], g[1], a)
			}
		}
	})
})
