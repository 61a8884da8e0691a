package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
)

// WriteCSV writes results as CSV. Text fields are always double-quoted with
// embedded quotes doubled; the status code and redirect flag are written
// bare, and a missing redirect URL is written as "".
func WriteCSV(w io.Writer, results []model.CheckResult) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return err
	}

	for _, r := range results {
		fields := []string{
			quote(r.URL),
			r.StatusCode.String(),
			quote(r.StatusMessage),
			strconv.FormatBool(r.IsRedirect),
			quote(r.Redirect()),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
