// Package source extracts per-page plain text from exam documents.
//
// Layout and column handling is left to the underlying readers; callers get
// pages in reading order and nothing else.
package source

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

type Document struct {
	Path  string
	Pages []string
}

type Options struct {
	// HTMLPageSelector picks page containers in HTML exports. When nothing
	// matches, the whole body is one page.
	HTMLPageSelector string
}

var htmlBlocks = "p,h1,h2,h3,h4,h5,h6,li,td"

func Load(path string, opts Options) (Document, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Document{}, eris.Wrapf(err, "source: read %s", path)
	}

	var pages []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		pages, err = PDFPages(blob)
	case ".html", ".htm":
		pages, err = HTMLPages(blob, opts.HTMLPageSelector)
	case ".txt":
		pages = TextPages(string(blob))
	default:
		return Document{}, eris.Errorf("source: unsupported document type: %s", path)
	}
	if err != nil {
		return Document{}, eris.Wrapf(err, "source: extract %s", path)
	}

	zap.L().Debug("document loaded", zap.String("path", path), zap.Int("pages", len(pages)))
	return Document{Path: path, Pages: pages}, nil
}

func PDFPages(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			zap.L().Warn("pdf page skipped", zap.Int("page", i), zap.Error(err))
			continue
		}
		out = append(out, cleanPage(text))
	}
	return out, nil
}

func HTMLPages(content []byte, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var containers *goquery.Selection
	if selector != "" {
		containers = doc.Find(selector)
	}
	if containers == nil || containers.Length() == 0 {
		containers = doc.Find("body")
	}

	out := make([]string, 0, containers.Length())
	containers.Each(func(_ int, page *goquery.Selection) {
		lines := []string{}
		page.Find(htmlBlocks).Each(func(_ int, block *goquery.Selection) {
			if block.Find(htmlBlocks).Length() > 0 {
				return
			}
			if line := strings.TrimSpace(block.Text()); line != "" {
				lines = append(lines, line)
			}
		})
		if len(lines) == 0 {
			lines = append(lines, strings.TrimSpace(page.Text()))
		}
		out = append(out, cleanPage(strings.Join(lines, "\n")))
	})
	return out, nil
}

// TextPages splits pdftotext output, which separates pages with form feeds.
func TextPages(text string) []string {
	parts := strings.Split(text, "\f")
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == len(parts)-1 && strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, cleanPage(p))
	}
	return out
}

func cleanPage(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = norm.NFC.String(text)
	return strings.TrimRight(text, " \t\n")
}
