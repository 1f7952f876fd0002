package invoice

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// maxAssetWidth caps the pixel width of banner images embedded in the
// document. 1100px covers the 140mm column at roughly 200 DPI.
const maxAssetWidth = 1100

// Assets holds the invoice banner images as data URIs, prepared once
// at startup so render requests do not touch the filesystem.
type Assets struct {
	header template.URL
	footer template.URL
}

// LoadAssets reads header and footer banner images from dir. A missing
// file is not an error, the invoice simply renders without that banner.
func LoadAssets(dir string) (*Assets, error) {
	a := &Assets{}

	header, err := loadBanner(filepath.Join(dir, "invoice-header"))
	if err != nil {
		return nil, fmt.Errorf("load header banner: %w", err)
	}
	a.header = header

	footer, err := loadBanner(filepath.Join(dir, "invoice-footer"))
	if err != nil {
		return nil, fmt.Errorf("load footer banner: %w", err)
	}
	a.footer = footer

	return a, nil
}

func (a *Assets) Header() template.URL { return a.header }
func (a *Assets) Footer() template.URL { return a.footer }

// loadBanner finds the banner image under base with a common extension,
// downscales it to the embed width, and returns it as a JPEG data URI.
func loadBanner(base string) (template.URL, error) {
	extensions := []string{".png", ".jpg", ".jpeg"}
	var path string
	for _, ext := range extensions {
		if _, err := os.Stat(base + ext); err == nil {
			path = base + ext
			break
		}
	}
	if path == "" {
		log.Printf("invoice banner not found: %s.{png,jpg,jpeg}", base)
		return "", nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", path, err)
	}

	if img.Bounds().Dx() > maxAssetWidth {
		img = imaging.Resize(img, maxAssetWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}

	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	return template.URL(uri), nil
}
