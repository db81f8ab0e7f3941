package document

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/jpeg" // register the jpeg decoder for uploaded photos/scans

	"github.com/otiai10/gosseract/v2"
)

// contrastFactor of 2.0 sharpens faded scans before OCR; values are
// interpolated against the image's mean luminance.
const contrastFactor = 2.0

// extractImage runs OCR on a contrast-enhanced copy of the image.
func extractImage(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	enhanced := enhanceContrast(img, contrastFactor)
	var buf bytes.Buffer
	if err := png.Encode(&buf, enhanced); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		return "", fmt.Errorf("ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("ocr input: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}

// enhanceContrast scales each channel away from the image's mean luminance
// by the given factor, clamping to the valid range.
func enhanceContrast(img image.Image, factor float64) *image.RGBA {
	bounds := img.Bounds()

	// Mean luminance over the whole image.
	var sum, count float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			sum += float64(c.Y)
			count++
		}
	}
	mean := 128.0
	if count > 0 {
		mean = sum / count
	}

	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out.SetRGBA(x, y, color.RGBA{
				R: clampChannel(mean + factor*(float64(r>>8)-mean)),
				G: clampChannel(mean + factor*(float64(g>>8)-mean)),
				B: clampChannel(mean + factor*(float64(b>>8)-mean)),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
