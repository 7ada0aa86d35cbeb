package cache_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veldspar/intelboard/internal/cache"
)

func TestCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cache Suite")
}

var _ = Describe("Cache", func() {
	var c *cache.Cache

	BeforeEach(func() {
		c = cache.New(10 * time.Millisecond)
	})

	AfterEach(func() {
		c.Close()
	})

	It("should store and retrieve values by namespace and key", func() {
		c.Put("analysis", "char:1", 42, time.Minute)

		v, ok := c.Get("analysis", "char:1")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(42))

		_, ok = c.Get("other", "char:1")
		Expect(ok).To(BeFalse(), "namespaces are isolated")
	})

	It("should miss on expired entries", func() {
		c.Put("analysis", "char:1", 42, 20*time.Millisecond)

		_, ok := c.Get("analysis", "char:1")
		Expect(ok).To(BeTrue())

		Eventually(func() bool {
			_, ok := c.Get("analysis", "char:1")
			return ok
		}, time.Second).Should(BeFalse())
	})

	It("should sweep expired entries in the background", func() {
		c.Put("analysis", "char:1", 1, 10*time.Millisecond)
		c.Put("analysis", "char:2", 2, time.Minute)

		Eventually(c.Len, time.Second).Should(Equal(1))
	})

	It("should ignore non-positive TTLs", func() {
		c.Put("analysis", "char:1", 42, 0)
		_, ok := c.Get("analysis", "char:1")
		Expect(ok).To(BeFalse())
	})

	It("should invalidate entries on demand", func() {
		c.Put("analysis", "char:1", 42, time.Minute)
		c.Invalidate("analysis", "char:1")
		_, ok := c.Get("analysis", "char:1")
		Expect(ok).To(BeFalse())
	})
})
