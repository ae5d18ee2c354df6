package tracking

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/soocke/pixel-track-go/config"
	"github.com/soocke/pixel-track-go/domain/geom"
)

const (
	rawPatchSize    = 16
	histogramBins   = 16
	histogramLevels = 3
	histogramSample = 32 // max samples per box side
)

// grayPlane caches luminance in [0,1] for a rectangle of a frame.
type grayPlane struct {
	rect image.Rectangle
	pix  []float64
}

func newGrayPlane(frame *image.RGBA, rect image.Rectangle) *grayPlane {
	rect = rect.Intersect(frame.Bounds())
	w, h := rect.Dx(), rect.Dy()
	p := &grayPlane{rect: rect, pix: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		off := frame.PixOffset(rect.Min.X, rect.Min.Y+y)
		for x := 0; x < w; x++ {
			r, g, b := frame.Pix[off], frame.Pix[off+1], frame.Pix[off+2]
			p.pix[y*w+x] = (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255.0
			off += 4
		}
	}
	return p
}

// at returns the luminance at absolute frame coordinates, clamped to the plane.
func (p *grayPlane) at(x, y int) float64 {
	w, h := p.rect.Dx(), p.rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	x -= p.rect.Min.X
	y -= p.rect.Min.Y
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	return p.pix[y*w+x]
}

// extractor turns the pixels under a box into a feature vector.
type extractor func(p *grayPlane, box geom.BoundingBox) []float64

// rawFeatures resamples the box to a fixed patch and normalises it to zero
// mean and unit deviation, so the linear kernel reduces to NCC.
func rawFeatures(p *grayPlane, box geom.BoundingBox) []float64 {
	out := make([]float64, rawPatchSize*rawPatchSize)
	sx := box.Width / rawPatchSize
	sy := box.Height / rawPatchSize
	for j := 0; j < rawPatchSize; j++ {
		y := int(box.YMin + (float64(j)+0.5)*sy)
		for i := 0; i < rawPatchSize; i++ {
			x := int(box.XMin + (float64(i)+0.5)*sx)
			out[j*rawPatchSize+i] = p.at(x, y)
		}
	}
	mean, std := stat.MeanStdDev(out, nil)
	if std < 1e-9 || math.IsNaN(std) {
		std = 1
	}
	for i := range out {
		out[i] = (out[i] - mean) / std
	}
	return out
}

// histogramFeatures builds a spatial pyramid of intensity histograms
// (1x1, 2x2 and 3x3 cells). Every cell histogram sums to 1/cells, so the
// whole vector is a distribution.
func histogramFeatures(p *grayPlane, box geom.BoundingBox) []float64 {
	cells := 0
	for l := 1; l <= histogramLevels; l++ {
		cells += l * l
	}
	out := make([]float64, cells*histogramBins)
	n := histogramSample
	if int(box.Width) < n {
		n = max(int(box.Width), 1)
	}
	m := histogramSample
	if int(box.Height) < m {
		m = max(int(box.Height), 1)
	}
	sx := box.Width / float64(n)
	sy := box.Height / float64(m)
	base := 0
	for l := 1; l <= histogramLevels; l++ {
		counts := make([]int, l*l)
		for j := 0; j < m; j++ {
			y := int(box.YMin + (float64(j)+0.5)*sy)
			cy := j * l / m
			for i := 0; i < n; i++ {
				x := int(box.XMin + (float64(i)+0.5)*sx)
				cx := i * l / n
				cell := cy*l + cx
				bin := int(p.at(x, y) * histogramBins)
				if bin >= histogramBins {
					bin = histogramBins - 1
				}
				out[(base+cell)*histogramBins+bin]++
				counts[cell]++
			}
		}
		for c, cnt := range counts {
			if cnt == 0 {
				continue
			}
			norm := float64(cnt) * float64(cells)
			for b := 0; b < histogramBins; b++ {
				out[(base+c)*histogramBins+b] /= norm
			}
		}
		base += l * l
	}
	return out
}

// kernel scores the similarity of two feature vectors; higher is closer.
type kernel func(a, b []float64) float64

func linearKernel(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / math.Sqrt(na*nb)
}

func gaussianKernel(sigma float64) kernel {
	return func(a, b []float64) float64 {
		var d float64
		for i := range a {
			diff := a[i] - b[i]
			d += diff * diff
		}
		return math.Exp(-sigma * d / float64(len(a)))
	}
}

func intersectionKernel(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += math.Min(a[i], b[i])
	}
	return s
}

func chi2Kernel(a, b []float64) float64 {
	var s float64
	for i := range a {
		if sum := a[i] + b[i]; sum > 0 {
			s += 2 * a[i] * b[i] / sum
		}
	}
	return s
}

// featureModel is one configured descriptor with its template vector.
type featureModel struct {
	name     string
	extract  extractor
	kernel   kernel
	weight   float64
	template []float64
}

func newFeatureModel(f config.Feature) featureModel {
	m := featureModel{name: f.Type + "/" + f.Kernel, weight: f.Weight}
	if m.weight <= 0 {
		m.weight = 1
	}
	switch f.Type {
	case config.FeatureHistogram:
		m.extract = histogramFeatures
	default:
		m.extract = rawFeatures
	}
	switch f.Kernel {
	case config.KernelGaussian:
		sigma := f.Sigma
		if sigma <= 0 {
			sigma = 0.2
		}
		m.kernel = gaussianKernel(sigma)
	case config.KernelIntersection:
		m.kernel = intersectionKernel
	case config.KernelChi2:
		m.kernel = chi2Kernel
	default:
		m.kernel = linearKernel
	}
	return m
}

// blend moves the template towards v by rate.
func (m *featureModel) blend(v []float64, rate float64) {
	for i := range m.template {
		m.template[i] = (1-rate)*m.template[i] + rate*v[i]
	}
}
