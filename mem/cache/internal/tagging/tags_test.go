package tagging

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tags", func() {
	var (
		tags *tagArrayImpl
	)

	BeforeEach(func() {
		tags = NewTagArray(1024, 4).(*tagArrayImpl)
	})

	It("should create all sets and ways invalid", func() {
		Expect(tags.sets).To(HaveLen(1024))
		Expect(tags.GetSet(17).Blocks).To(HaveLen(4))
		Expect(tags.GetSet(17).Blocks[3].SetID).To(Equal(17))
		Expect(tags.GetSet(17).Blocks[3].WayID).To(Equal(3))
		Expect(tags.NumValidBlocks()).To(Equal(0))
	})

	It("should lookup", func() {
		tags.Install(5, 2, 0x100, false)

		wayID, ok := tags.Lookup(5, 0x100)

		Expect(ok).To(BeTrue())
		Expect(wayID).To(Equal(2))
	})

	It("should not find a tag in another set", func() {
		tags.Install(5, 2, 0x100, false)

		_, ok := tags.Lookup(6, 0x100)

		Expect(ok).To(BeFalse())
	})

	It("should not find an invalid block", func() {
		set := tags.GetSet(5)
		set.Blocks[0].Tag = 0x100

		_, ok := tags.Lookup(5, 0x100)

		Expect(ok).To(BeFalse())
	})

	It("should clear valid and dirty bits on evict", func() {
		tags.Install(1, 0, 0x7, true)

		tags.Evict(1, 0)

		block := tags.GetSet(1).Blocks[0]
		Expect(block.IsValid).To(BeFalse())
		Expect(block.IsDirty).To(BeFalse())
	})

	It("should mark a valid block dirty", func() {
		tags.Install(1, 3, 0x7, false)

		tags.MarkDirty(1, 3)

		Expect(tags.GetSet(1).Blocks[3].IsDirty).To(BeTrue())
	})

	It("should panic when marking an invalid block dirty", func() {
		Expect(func() { tags.MarkDirty(1, 3) }).To(Panic())
	})

	It("should count valid blocks and reset", func() {
		tags.Install(0, 0, 1, false)
		tags.Install(0, 1, 2, false)
		tags.Install(9, 3, 3, true)

		Expect(tags.NumValidBlocks()).To(Equal(3))

		tags.reset()

		Expect(tags.NumValidBlocks()).To(Equal(0))
	})
})
