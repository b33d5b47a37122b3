// Package images handles pictures extracted from presentations.
package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGSize is used when svg declares no usable view box.
const defaultSVGSize = 256

// maxRasterDim limits both dimensions of rasterized previews, huge view boxes
// would otherwise allocate gigabytes.
var maxRasterDim = 4096

// RasterizeSVG renders svg document on white background. With positive width
// the image is scaled to it keeping aspect ratio, otherwise view box size is
// used.
func RasterizeSVG(data []byte, width int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}

	intrW, intrH := icon.ViewBox.W, icon.ViewBox.H
	if intrW <= 0 || intrH <= 0 {
		intrW, intrH = defaultSVGSize, defaultSVGSize
	}

	w, h := int(math.Ceil(intrW)), int(math.Ceil(intrH))
	if width > 0 {
		w = width
		h = int(math.Round(float64(width) * intrH / intrW))
	}
	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = int(math.Round(float64(w) * s))
		h = int(math.Round(float64(h) * s))
	}
	w, h = max(w, 1), max(h, 1)

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return dst, nil
}
