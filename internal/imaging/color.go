package imaging

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
)

// sampleEdge is the canvas size the image is resampled to before averaging.
// Small enough to make the average cheap, large enough to smooth noise.
const sampleEdge = 120

// ColorSummary is the qualitative colour read of a photo: an averaged HSV
// triple, a coarse colour name from the threshold table, and a flag for the
// red/orange saturated band that usually means iron oxides in hand sample.
type ColorSummary struct {
	Name            string  `json:"name"`
	Hex             string  `json:"hex"`
	Hue             float64 `json:"hue"`
	Saturation      float64 `json:"saturation"`
	Value           float64 `json:"value"`
	IronOxideLikely bool    `json:"ironOxideLikely"`
}

// SummarizeColor averages the image down to one RGB triple and classifies
// it. Pure function of the pixel data.
func SummarizeColor(img image.Image) ColorSummary {
	small := image.NewRGBA(image.Rect(0, 0, sampleEdge, sampleEdge))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Over, nil)

	var rSum, gSum, bSum uint64
	n := uint64(sampleEdge * sampleEdge)
	for i := 0; i < len(small.Pix); i += 4 {
		rSum += uint64(small.Pix[i])
		gSum += uint64(small.Pix[i+1])
		bSum += uint64(small.Pix[i+2])
	}

	r := uint8(rSum / n)
	g := uint8(gSum / n)
	b := uint8(bSum / n)

	return ClassifyRGB(r, g, b)
}

// ClassifyRGB maps one averaged RGB triple to a colour summary via the
// fixed HSV threshold table.
func ClassifyRGB(r, g, b uint8) ColorSummary {
	h, s, v := rgbToHSV(r, g, b)

	sum := ColorSummary{
		Hex:        fmt.Sprintf("#%02x%02x%02x", r, g, b),
		Hue:        h,
		Saturation: s,
		Value:      v,
	}

	warm := (h < 50 || h >= 330)
	sum.IronOxideLikely = warm && s > 0.3

	switch {
	case v < 0.18:
		sum.Name = "very dark / black"
	case s < 0.12 && v > 0.8:
		sum.Name = "white"
	case s < 0.12:
		sum.Name = "grey"
	case h < 15 || h >= 345:
		sum.Name = "red"
	case h < 45:
		if v < 0.55 {
			sum.Name = "brown"
		} else {
			sum.Name = "orange"
		}
	case h < 70:
		sum.Name = "yellow"
	case h < 170:
		sum.Name = "green"
	case h < 255:
		sum.Name = "blue"
	default:
		sum.Name = "purple"
	}

	return sum
}

// rgbToHSV converts 8-bit RGB to hue [0,360), saturation and value [0,1].
func rgbToHSV(r, g, b uint8) (float64, float64, float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	v := max

	var s float64
	if max > 0 {
		s = delta / max
	}

	var h float64
	if delta > 0 {
		switch max {
		case rf:
			h = 60 * math.Mod((gf-bf)/delta, 6)
		case gf:
			h = 60 * ((bf-rf)/delta + 2)
		default:
			h = 60 * ((rf-gf)/delta + 4)
		}
		if h < 0 {
			h += 360
		}
	}

	return h, s, v
}
