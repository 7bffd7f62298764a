package negotiation_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/content-negotiation/internal/negotiation"
)

var _ = Describe("IgnoreClient negotiator", func() {
	var (
		n         negotiation.Negotiator
		renderers []negotiation.Renderer
	)

	BeforeEach(func() {
		n = negotiation.NewIgnoreClient()
		renderers = []negotiation.Renderer{jsonRenderer, htmlRenderer}
	})

	It("should pick the first renderer whatever the client accepts", func() {
		r, mt, err := n.SelectRenderer(accept("text/html"), renderers, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(BeIdenticalTo(jsonRenderer))
		Expect(mt).To(Equal("application/json"))
	})

	It("should still honour a format suffix", func() {
		r, _, err := n.SelectRenderer(accept(""), renderers, "html")
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(BeIdenticalTo(htmlRenderer))

		_, _, err = n.SelectRenderer(accept(""), renderers, "yaml")
		Expect(err).To(MatchError(negotiation.ErrNoRendererForFormat))
	})

	It("should fail when there are no renderers", func() {
		_, _, err := n.SelectRenderer(accept(""), nil, "")
		var notAcceptable *negotiation.NotAcceptableError
		Expect(errors.As(err, &notAcceptable)).To(BeTrue())
	})

	It("should pick the first parser", func() {
		first := &stub{mediaType: "application/json"}
		p, ok := n.SelectParser(negotiation.Request{ContentType: "text/csv"}, []negotiation.Parser{first})
		Expect(ok).To(BeTrue())
		Expect(p).To(BeIdenticalTo(first))

		_, ok = n.SelectParser(negotiation.Request{}, nil)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("New", func() {
	DescribeTable("known strategies",
		func(name string) {
			n, err := negotiation.New(name, negotiation.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())
			Expect(n).NotTo(BeNil())
		},
		Entry("default", negotiation.StrategyDefault),
		Entry("empty name", ""),
		Entry("ignore client", negotiation.StrategyIgnoreClient),
	)

	It("should reject an unknown strategy", func() {
		n, err := negotiation.New("round-robin", negotiation.DefaultConfig())
		Expect(err).To(HaveOccurred())
		Expect(n).To(BeNil())
	})
})
