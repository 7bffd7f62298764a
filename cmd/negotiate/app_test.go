package main

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
)

var _ = Describe("negotiate", func() {
	runApp := func(args ...string) (string, error) {
		var out bytes.Buffer
		app := App()
		app.Writer = &out
		app.ExitErrHandler = func(*cli.Context, error) {}

		err := app.Run(append([]string{"negotiate"}, args...))
		return out.String(), err
	}

	exitCodeOf := func(err error) int {
		coder, ok := err.(cli.ExitCoder)
		Expect(ok).To(BeTrue())
		return coder.ExitCode()
	}

	It("should print the selected renderer", func() {
		out, err := runApp("--accept", "text/html")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("renderer:   html"))
		Expect(out).To(ContainSubstring("media type: text/html"))
	})

	It("should print JSON output", func() {
		out, err := runApp("--accept", "text/*;q=0.5, application/json", "--output", "json")
		Expect(err).NotTo(HaveOccurred())
		Expect(gjson.Get(out, "renderer").String()).To(Equal("json"))
		Expect(gjson.Get(out, "accept.0").String()).To(Equal("application/json"))
		Expect(gjson.Get(out, "accept.1").String()).To(Equal("text/*; q=0.5"))
	})

	It("should select a parser when a content type is given", func() {
		out, err := runApp("--content-type", "application/x-www-form-urlencoded", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		Expect(gjson.Get(out, "parser").String()).To(Equal("application/x-www-form-urlencoded"))
	})

	It("should honour a format suffix", func() {
		out, err := runApp("--renderer", "json", "--renderer", "xml", "--format", "xml", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		Expect(gjson.Get(out, "media_type").String()).To(Equal("application/xml"))
	})

	It("should honour query overrides", func() {
		out, err := runApp("--accept", "application/json", "--query", "accept=text/html, */*;q=0.1", "-o", "json")
		Expect(err).NotTo(HaveOccurred())
		Expect(gjson.Get(out, "renderer").String()).To(Equal("html"))
	})

	It("should exit 2 when nothing is acceptable", func() {
		_, err := runApp("--accept", "image/png")
		Expect(exitCodeOf(err)).To(Equal(exitNotAcceptable))
	})

	It("should exit 3 for an unknown format", func() {
		_, err := runApp("--format", "yaml")
		Expect(exitCodeOf(err)).To(Equal(exitNoRendererForFormat))
	})

	It("should exit 4 for a malformed quality value", func() {
		_, err := runApp("--accept", "text/html; q=x")
		Expect(exitCodeOf(err)).To(Equal(exitInvalidAccept))
	})

	It("should reject an unknown quality policy", func() {
		_, err := runApp("--accept", "text/html; q=x", "--quality-policy", "bogus")
		Expect(exitCodeOf(err)).To(Equal(1))
		Expect(err).To(MatchError(ContainSubstring(`unknown quality policy "bogus"`)))
	})

	It("should clamp a malformed quality value when asked", func() {
		out, err := runApp("--accept", "text/html; q=x", "--quality-policy", "clamp")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("renderer:   html"))
	})

	It("should exit 5 for an unsupported content type", func() {
		_, err := runApp("--content-type", "image/png")
		Expect(exitCodeOf(err)).To(Equal(exitUnsupportedMedia))
	})

	It("should reject an unknown strategy", func() {
		_, err := runApp("--strategy", "random")
		Expect(exitCodeOf(err)).To(Equal(1))
	})

	It("should reject a malformed query pair", func() {
		_, err := runApp("--query", "novalue")
		Expect(err).To(MatchError(ContainSubstring("want key=value")))
	})

	It("should ignore the client with the ignore-client strategy", func() {
		out, err := runApp("--accept", "image/png", "--strategy", "ignore-client")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("renderer:   json"))
	})
})
