package pool

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func testJob(id uint64, prio Priority) *job {
	return &job{id: id, priority: prio}
}

var _ = Describe("jobQueue", func() {
	var q *jobQueue

	BeforeEach(func() {
		q = newJobQueue(10)
	})

	It("should pop in FIFO order within one priority class", func() {
		for i := range 3 {
			Expect(q.push(testJob(uint64(i), PriorityNormal))).To(Succeed())
		}
		for i := range 3 {
			j, ok := q.pop()
			Expect(ok).To(BeTrue())
			Expect(j.id).To(Equal(uint64(i)))
		}
	})

	It("should place high-priority jobs ahead of normal and low jobs", func() {
		Expect(q.push(testJob(1, PriorityLow))).To(Succeed())
		Expect(q.push(testJob(2, PriorityNormal))).To(Succeed())
		Expect(q.push(testJob(3, PriorityHigh))).To(Succeed())
		Expect(q.push(testJob(4, PriorityNormal))).To(Succeed())

		var order []uint64
		for {
			j, ok := q.pop()
			if !ok {
				break
			}
			order = append(order, j.id)
		}
		Expect(order).To(Equal([]uint64{3, 1, 2, 4}))
	})

	It("should keep high-priority jobs in their own FIFO sub-queue", func() {
		Expect(q.push(testJob(1, PriorityNormal))).To(Succeed())
		Expect(q.push(testJob(2, PriorityHigh))).To(Succeed())
		Expect(q.push(testJob(3, PriorityHigh))).To(Succeed())

		j, _ := q.pop()
		Expect(j.id).To(Equal(uint64(2)))
		j, _ = q.pop()
		Expect(j.id).To(Equal(uint64(3)))
		j, _ = q.pop()
		Expect(j.id).To(Equal(uint64(1)))
	})

	It("should reject pushes beyond the limit", func() {
		q = newJobQueue(2)
		Expect(q.push(testJob(1, PriorityNormal))).To(Succeed())
		Expect(q.push(testJob(2, PriorityNormal))).To(Succeed())
		Expect(q.push(testJob(3, PriorityHigh))).To(MatchError(ErrQueueFull))
		Expect(q.len()).To(Equal(2))
	})

	It("should clear all queued jobs", func() {
		for i := range 5 {
			Expect(q.push(testJob(uint64(i), PriorityNormal))).To(Succeed())
		}
		dropped := q.clear()
		Expect(dropped).To(HaveLen(5))
		Expect(q.len()).To(BeZero())
		_, ok := q.pop()
		Expect(ok).To(BeFalse())
	})
})
