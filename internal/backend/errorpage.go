package backend

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// pageTitle returns the trimmed <title> of an HTML document, falling back to
// the first <h1>. Proxies in front of the backend answer with such pages.
func pageTitle(body io.Reader) string {
	z := html.NewTokenizer(body)
	var inTitle, inH1 bool
	var h1 string

	for {
		switch z.Next() {
		case html.ErrorToken:
			if !errors.Is(z.Err(), io.EOF) {
				return ""
			}
			return h1

		case html.StartTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "title":
				inTitle = true
			case "h1":
				inH1 = true
			}

		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			switch {
			case inTitle && text != "":
				return text
			case inH1 && h1 == "" && text != "":
				h1 = text
			}

		case html.EndTagToken:
			tn, _ := z.TagName()
			switch string(tn) {
			case "title":
				inTitle = false
			case "h1":
				inH1 = false
			}
		}
	}
}
