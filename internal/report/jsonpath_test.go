package report_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega

	"github.com/joe/file-inventory/internal/report"
)

func TestQuerySelectsRecords(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result, err := report.Query(sample(), "$[?(@.file_size_bytes > 10000)]")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(pathsOf(result.Records)).Should(ConsistOf(`C:\Users\me\photo.jpg`, `\\nas\media\film.mkv`))
	g.Expect(result.Values).Should(BeEmpty())
	g.Expect(result.Len()).Should(Equal(2))
}

func TestQuerySelectsValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	result, err := report.Query(sample(), "$[*].hostname")

	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(result.Records).Should(BeEmpty())
	g.Expect(result.Values).Should(HaveLen(5))
	g.Expect(result.Lines()).Should(ContainElement(`"nas"`))
}

func TestQueryInvalid(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := report.Query(sample(), "$[?(")

	g.Expect(err).Should(MatchError(report.ErrInvalidQuery))
}
