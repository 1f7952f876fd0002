// Package invoice renders printable A5 order invoices through headless
// Chrome.
package invoice

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A5 paper in inches (148mm x 210mm). The layout itself is built around
// a 140mm content column so the template fits common thermal stock too.
const (
	paperWidthIn  = 5.83
	paperHeightIn = 8.27
)

// Prescription holds one eye's correction values, already formatted.
type Prescription struct {
	Sph  string
	Cyl  string
	Axis string
	Add  string
}

// CheckItem is a single row of the vision or treatment checklist.
type CheckItem struct {
	Label   string
	Checked bool
}

// Line is one billed product row.
type Line struct {
	ProductName string
	Quantity    int32
	UnitPrice   string
	SubTotal    string
}

// Data is everything the invoice template needs, pre-formatted; the
// renderer does no currency math of its own.
type Data struct {
	OrderDate   time.Time
	ClientName  string
	LeftEye     Prescription
	RightEye    Prescription
	Vision      []CheckItem
	Treatments  []CheckItem
	Lines       []Line
	TotalAmount string

	// HeaderImage and FooterImage are data URIs, filled in by the
	// renderer from its asset directory.
	HeaderImage template.URL
	FooterImage template.URL
}

// Renderer turns invoice data into a PDF.
type Renderer struct {
	chromePath string
	assets     *Assets
}

// NewRenderer creates a Renderer. chromePath may be empty, in which
// case common installation paths are probed at render time.
func NewRenderer(chromePath string, assets *Assets) *Renderer {
	return &Renderer{chromePath: chromePath, assets: assets}
}

// detectChromePath detects the path to Chrome/Chromium executable.
// Checks CHROME_PATH env var first, then common installation paths.
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RenderHTML executes the invoice template and returns the document.
func (r *Renderer) RenderHTML(data Data) (string, error) {
	if r.assets != nil {
		data.HeaderImage = r.assets.Header()
		data.FooterImage = r.assets.Footer()
	}

	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute invoice template: %w", err)
	}
	return buf.String(), nil
}

// Render produces the invoice PDF.
func (r *Renderer) Render(ctx context.Context, data Data) ([]byte, error) {
	html, err := r.RenderHTML(data)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	chromePath := r.chromePath
	if chromePath == "" {
		chromePath = detectChromePath()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // required for running in containers
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	// The document is self-contained (images are inlined as data URIs),
	// so it can be navigated to directly without serving it over HTTP.
	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(0). // margins live in the CSS
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}
	return pdfBuf, nil
}
