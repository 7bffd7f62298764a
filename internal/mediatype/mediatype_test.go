package mediatype_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/content-negotiation/internal/mediatype"
)

var _ = Describe("MediaType", func() {
	Describe("Parse", func() {
		It("should split type, subtype and parameters", func() {
			mt, err := mediatype.Parse("application/json; indent=4")
			Expect(err).NotTo(HaveOccurred())
			Expect(mt.Type()).To(Equal("application"))
			Expect(mt.SubType()).To(Equal("json"))
			Expect(mt.Params()).To(Equal([]mediatype.Param{{Name: "indent", Value: "4"}}))
			Expect(mt.Quality()).To(Equal(1.0))
			Expect(mt.QualityExplicit()).To(BeFalse())
		})

		It("should strip q from the parameters", func() {
			mt, err := mediatype.Parse("text/html; level=1; q=0.7")
			Expect(err).NotTo(HaveOccurred())
			Expect(mt.Quality()).To(Equal(0.7))
			Expect(mt.QualityExplicit()).To(BeTrue())
			Expect(mt.Params()).To(HaveLen(1))
			_, ok := mt.Param("q")
			Expect(ok).To(BeFalse())
		})

		It("should lower-case types and parameter names but keep values", func() {
			mt, _ := mediatype.Parse("Text/HTML; Charset=UTF-8")
			Expect(mt.FullType()).To(Equal("text/html"))
			v, ok := mt.Param("charset")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("UTF-8"))
		})

		It("should ignore whitespace around separators", func() {
			mt, _ := mediatype.Parse("  text/plain ;  width = 80 ;q = 0.5 ")
			Expect(mt.FullType()).To(Equal("text/plain"))
			Expect(mt.Params()).To(Equal([]mediatype.Param{{Name: "width", Value: "80"}}))
			Expect(mt.Quality()).To(Equal(0.5))
		})

		It("should unquote quoted values and keep separators inside quotes", func() {
			mt, _ := mediatype.Parse(`multipart/mixed; boundary="a;b=c"; title="say \"hi\""`)
			boundary, _ := mt.Param("boundary")
			Expect(boundary).To(Equal("a;b=c"))
			title, _ := mt.Param("title")
			Expect(title).To(Equal(`say "hi"`))
		})

		It("should parse an empty string as */*", func() {
			mt, err := mediatype.Parse("")
			Expect(err).NotTo(HaveOccurred())
			Expect(mt.FullType()).To(Equal("*/*"))
			Expect(mt.Original()).To(Equal(""))
		})

		It("should yield an empty subtype when the slash is missing", func() {
			mt, _ := mediatype.Parse("json")
			Expect(mt.Type()).To(Equal("json"))
			Expect(mt.SubType()).To(Equal(""))
		})

		It("should drop fragments without a value", func() {
			mt, _ := mediatype.Parse("text/plain; flowed; ; =x; format=fixed")
			Expect(mt.Params()).To(Equal([]mediatype.Param{{Name: "format", Value: "fixed"}}))
		})

		It("should keep the first position and last value of a repeated parameter", func() {
			mt, _ := mediatype.Parse("text/plain; a=1; b=2; a=3")
			Expect(mt.Params()).To(Equal([]mediatype.Param{
				{Name: "a", Value: "3"},
				{Name: "b", Value: "2"},
			}))
		})

		It("should clamp out of range qualities", func() {
			high, err := mediatype.Parse("text/plain; q=3")
			Expect(err).NotTo(HaveOccurred())
			Expect(high.Quality()).To(Equal(1.0))

			low, _ := mediatype.Parse("text/plain; q=-1")
			Expect(low.Quality()).To(Equal(0.0))
		})

		It("should report a non-numeric quality and fall back to 1.0", func() {
			mt, err := mediatype.Parse("text/plain; q=high")
			Expect(err).To(MatchError(mediatype.ErrInvalidQuality))
			Expect(mt.Quality()).To(Equal(1.0))
			Expect(mt.QualityExplicit()).To(BeFalse())
			Expect(mt.FullType()).To(Equal("text/plain"))
		})

		It("should reject NaN as a quality", func() {
			_, err := mediatype.Parse("text/plain; q=NaN")
			Expect(err).To(MatchError(mediatype.ErrInvalidQuality))
		})

		It("should keep the original string verbatim", func() {
			mt, _ := mediatype.Parse("application/json;  indent=8")
			Expect(mt.Original()).To(Equal("application/json;  indent=8"))
		})
	})

	Describe("MustParse", func() {
		It("should panic on an invalid quality", func() {
			Expect(func() { mediatype.MustParse("text/plain; q=x") }).To(Panic())
		})

		It("should return the parsed value otherwise", func() {
			Expect(mediatype.MustParse("text/plain").FullType()).To(Equal("text/plain"))
		})
	})

	Describe("String", func() {
		It("should put q before the other parameters", func() {
			mt := mediatype.MustParse("text/html;level=1;q=0.5")
			Expect(mt.String()).To(Equal("text/html; q=0.5; level=1"))
		})

		It("should omit q when it was not given", func() {
			mt := mediatype.MustParse("application/json;indent=4")
			Expect(mt.String()).To(Equal("application/json; indent=4"))
		})

		It("should quote values that need it", func() {
			mt := mediatype.MustParse(`multipart/mixed; boundary="a;b"`)
			Expect(mt.String()).To(Equal(`multipart/mixed; boundary="a;b"`))
		})

		DescribeTable("round trip",
			func(s string) {
				first := mediatype.MustParse(s)
				second := mediatype.MustParse(first.String())
				Expect(second.Type()).To(Equal(first.Type()))
				Expect(second.SubType()).To(Equal(first.SubType()))
				Expect(second.Params()).To(Equal(first.Params()))
				Expect(second.Quality()).To(Equal(first.Quality()))
			},
			Entry("bare", "application/json"),
			Entry("wildcard", "*/*"),
			Entry("with quality", "application/xml;q=0.9"),
			Entry("with params", "text/plain; width=80; charset=utf-8"),
			Entry("quoted", `text/plain; title="a, b; c"`),
			Entry("empty value", `text/plain; x=""`),
			Entry("escaped quote", `text/plain; x="say \"hi\""`),
		)
	})

	Describe("Match", func() {
		match := func(a, b string) bool {
			return mediatype.MustParse(a).Match(mediatype.MustParse(b))
		}

		DescribeTable("type and subtype rules",
			func(a, b string, want bool) {
				Expect(match(a, b)).To(Equal(want))
			},
			Entry("identical", "text/html", "text/html", true),
			Entry("subtype wildcard", "text/html", "text/*", true),
			Entry("full wildcard", "text/html", "*/*", true),
			Entry("wildcard on the left", "*/*", "application/json", true),
			Entry("different subtype", "text/html", "text/plain", false),
			Entry("different type", "text/html", "application/json", false),
			Entry("quality is not a parameter", "text/html", "text/html; q=0.7", true),
			Entry("extra parameters on the right", "text/html", "text/html; what=42", true),
			Entry("missing parameter on the right", "text/html; what=42", "text/html", false),
			Entry("different parameter value", "text/html; what=42", "text/html; what=43", false),
			Entry("same parameter value", "text/html; what=42", "text/html; what=42; q=0.1", true),
		)

		It("should not be symmetric", func() {
			a := "application/json"
			b := "application/json; indent=4"
			Expect(match(a, b)).To(BeTrue())
			Expect(match(b, a)).To(BeFalse())
		})
	})

	Describe("Matches", func() {
		It("should compare two raw strings", func() {
			Expect(mediatype.Matches("application/json", "application/json; charset=utf-8")).To(BeTrue())
			Expect(mediatype.Matches("application/json", "text/plain")).To(BeFalse())
		})

		It("should tolerate a malformed quality", func() {
			Expect(mediatype.Matches("application/json", "application/json; q=bogus")).To(BeTrue())
		})
	})

	Describe("ParseList", func() {
		It("should split on commas and trim entries", func() {
			types, err := mediatype.ParseList("text/html , application/json;q=0.5")
			Expect(err).NotTo(HaveOccurred())
			Expect(types).To(HaveLen(2))
			Expect(types[0].Original()).To(Equal("text/html"))
			Expect(types[1].Original()).To(Equal("application/json;q=0.5"))
		})

		It("should keep every entry and report the first quality error", func() {
			types, err := mediatype.ParseList("text/html;q=x, application/json")
			Expect(err).To(MatchError(mediatype.ErrInvalidQuality))
			Expect(types).To(HaveLen(2))
		})
	})
})
