// Package imaging prepares scanned certificate pages for the vision model.
// The normalizer is a deterministic, stateless image transform:
// grayscale, crop to the largest connected ink region, fixed-threshold
// binarization, then adaptive Gaussian thresholding.
package imaging

import (
	"image"
	"image/color"
	"math"
)

const (
	// inkLuma is the luma at or below which a pixel counts as ink when
	// locating the document region. Matches the fixed binarization cut.
	inkLuma = 200

	// fixedThresholdValue is the output level for pixels above inkLuma.
	fixedThresholdValue = 235

	// adaptiveBlockSize is the Gaussian neighborhood edge length.
	adaptiveBlockSize = 21

	// adaptiveOffset is subtracted from the weighted neighborhood mean.
	adaptiveOffset = 5
)

// Normalize converts a decoded page image into a cleaned binary image.
// If no ink region is found (for example a blank white page) the crop step is
// a no-op and the full frame is thresholded instead; this is never an error.
func Normalize(src image.Image) *image.Gray {
	gray := toGray(src)

	if r, ok := largestInkRegion(gray); ok {
		gray = cropGray(gray, r)
	}

	fixed := fixedThreshold(gray)
	return adaptiveGaussianThreshold(fixed)
}

// toGray converts any image to 8-bit grayscale using the standard luma model.
func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return dst
}

// largestInkRegion finds the bounding rectangle of the largest connected
// region of ink pixels (4-connectivity, pixel-count area). Returns false when
// the page holds no ink at all.
func largestInkRegion(g *image.Gray) (image.Rectangle, bool) {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.Rectangle{}, false
	}

	visited := make([]bool, w*h)
	ink := func(x, y int) bool {
		return g.GrayAt(b.Min.X+x, b.Min.Y+y).Y <= inkLuma
	}

	var best image.Rectangle
	bestArea := 0
	stack := make([]image.Point, 0, 256)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || !ink(x, y) {
				continue
			}
			// flood fill one component
			area := 0
			minX, minY, maxX, maxY := x, y, x, y
			visited[y*w+x] = true
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				area++
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}
				for _, d := range [4]image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if visited[ny*w+nx] || !ink(nx, ny) {
						continue
					}
					visited[ny*w+nx] = true
					stack = append(stack, image.Pt(nx, ny))
				}
			}
			if area > bestArea {
				bestArea = area
				best = image.Rect(minX, minY, maxX+1, maxY+1)
			}
		}
	}

	if bestArea == 0 {
		return image.Rectangle{}, false
	}
	return best.Add(b.Min), true
}

func cropGray(g *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(g.Bounds())
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			dst.SetGray(x, y, g.GrayAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return dst
}

// fixedThreshold maps pixels above inkLuma to fixedThresholdValue and the
// rest to 0.
func fixedThreshold(g *image.Gray) *image.Gray {
	b := g.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if g.GrayAt(x, y).Y > inkLuma {
				dst.SetGray(x, y, color.Gray{Y: fixedThresholdValue})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return dst
}

// adaptiveGaussianThreshold binarizes each pixel against the Gaussian-weighted
// mean of its adaptiveBlockSize neighborhood minus adaptiveOffset. Edges are
// handled by clamping (border replication).
func adaptiveGaussianThreshold(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(b)
	if w == 0 || h == 0 {
		return dst
	}

	kernel := gaussianKernel(adaptiveBlockSize)
	radius := adaptiveBlockSize / 2

	// separable blur: horizontal pass then vertical pass
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				sx := clamp(x+k, 0, w-1)
				sum += kernel[k+radius] * float64(g.GrayAt(b.Min.X+sx, b.Min.Y+y).Y)
			}
			tmp[y*w+x] = sum
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var mean float64
			for k := -radius; k <= radius; k++ {
				sy := clamp(y+k, 0, h-1)
				mean += kernel[k+radius] * tmp[sy*w+x]
			}
			v := float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			if v > mean-adaptiveOffset {
				dst.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 255})
			} else {
				dst.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: 0})
			}
		}
	}
	return dst
}

// gaussianKernel builds a normalized 1-D kernel with the conventional sigma
// for the given aperture: 0.3*((ksize-1)*0.5 - 1) + 0.8.
func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	radius := size / 2
	kernel := make([]float64, size)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
