package cache

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var config Config

	BeforeEach(func() {
		config = Config{
			NumSets:       4,
			NumWays:       2,
			BlockSize:     16,
			WriteAllocate: true,
			WriteThrough:  false,
			Policy:        PolicyLRU,
		}
	})

	It("should accept a valid configuration", func() {
		Expect(config.Validate()).To(Succeed())
	})

	DescribeTable("rejecting configurations",
		func(mutate func(*Config), field string) {
			mutate(&config)

			err := config.Validate()

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())

			var configErr *ConfigError
			Expect(errors.As(err, &configErr)).To(BeTrue())
			Expect(configErr.Field).To(Equal(field))
		},
		Entry("3 sets", func(c *Config) { c.NumSets = 3 }, "NumSets"),
		Entry("0 sets", func(c *Config) { c.NumSets = 0 }, "NumSets"),
		Entry("negative sets", func(c *Config) { c.NumSets = -4 }, "NumSets"),
		Entry("6 ways", func(c *Config) { c.NumWays = 6 }, "NumWays"),
		Entry("block size 2", func(c *Config) { c.BlockSize = 2 }, "BlockSize"),
		Entry("block size 24", func(c *Config) { c.BlockSize = 24 }, "BlockSize"),
		Entry("too many index bits",
			func(c *Config) { c.NumSets = 1 << 30 }, "NumSets"),
		Entry("write-back without write-allocate",
			func(c *Config) { c.WriteAllocate = false }, "WriteAllocate"),
		Entry("unknown policy",
			func(c *Config) { c.Policy = Policy(7) }, "Policy"),
	)

	It("should accept no-write-allocate with write-through", func() {
		config.WriteAllocate = false
		config.WriteThrough = true

		Expect(config.Validate()).To(Succeed())
	})

	It("should parse policies", func() {
		p, err := ParsePolicy("FIFO")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(PolicyFIFO))

		p, err = ParsePolicy("lru")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(Equal(PolicyLRU))

		_, err = ParsePolicy("random")
		Expect(err).To(MatchError(ErrInvalidConfig))
	})

	It("should parse ops", func() {
		op, err := ParseOp("l")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(OpLoad))

		op, err = ParseOp("s")
		Expect(err).NotTo(HaveOccurred())
		Expect(op).To(Equal(OpStore))

		_, err = ParseOp("m")
		Expect(err).To(MatchError(ErrUnknownOp))
	})
})
