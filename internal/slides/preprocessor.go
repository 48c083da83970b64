package slides

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

// PreprocessorConfig holds the slide-likelihood and enhancement tunables.
type PreprocessorConfig struct {
	// WhiteThreshold is the minimum grayscale value counted as background.
	WhiteThreshold float64
	// WhiteFraction is the minimum fraction of background pixels required
	// for a frame to qualify as a slide.
	WhiteFraction float64
	// EdgeFractionMin/Max bound the Canny edge-pixel fraction: below the
	// minimum the frame is blank, above the maximum it is noise or footage.
	EdgeFractionMin float64
	EdgeFractionMax float64
	// MinRegionArea discards contours smaller than this many px².
	MinRegionArea float64
	// BorderPadding is kept around the main contour when cropping.
	BorderPadding int
}

func DefaultPreprocessorConfig() PreprocessorConfig {
	return PreprocessorConfig{
		WhiteThreshold:  200,
		WhiteFraction:   0.70,
		EdgeFractionMin: 0.01,
		EdgeFractionMax: 0.30,
		MinRegionArea:   100,
		BorderPadding:   10,
	}
}

// Preprocessor answers "is this frame a slide?" and turns accepted frames
// into OCR-ready binary images plus a content-region list.
type Preprocessor struct {
	cfg PreprocessorConfig
}

func NewPreprocessor(cfg PreprocessorConfig) *Preprocessor {
	return &Preprocessor{cfg: cfg}
}

// RejectReason distinguishes the soft per-frame outcomes so callers can
// tell "not a slide" apart from a transient processing failure.
type RejectReason string

const (
	RejectNone      RejectReason = ""
	RejectNotSlide  RejectReason = "not_slide"
	RejectNoContent RejectReason = "no_content"
)

// PreprocessResult is the outcome of the full OCR-preparation pipeline.
// When Accepted is true the caller owns Image and must Close it.
type PreprocessResult struct {
	Accepted bool
	Reason   RejectReason
	Image    gocv.Mat
	Regions  []entity.ContentRegion
}

// IsLikelySlide gates on a large light background plus a moderate amount of
// edge content. Both checks must pass.
func (p *Preprocessor) IsLikelySlide(frame gocv.Mat) bool {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	total := float64(gray.Rows() * gray.Cols())
	if total == 0 {
		return false
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, float32(p.cfg.WhiteThreshold), 255, gocv.ThresholdBinary)
	whiteFraction := float64(gocv.CountNonZero(bright)) / total
	if whiteFraction < p.cfg.WhiteFraction {
		return false
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)
	edgeFraction := float64(gocv.CountNonZero(edges)) / total

	return edgeFraction >= p.cfg.EdgeFractionMin && edgeFraction <= p.cfg.EdgeFractionMax
}

// DetectSkew estimates the text skew angle in degrees using near-horizontal
// Hough lines. Returns 0 when no usable lines are found.
func (p *Preprocessor) DetectSkew(frame gocv.Mat) float64 {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLines(edges, &lines, 1, math.Pi/180, 100)

	angles := make([]float64, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVecfAt(i, 0)
		if len(v) < 2 {
			continue
		}
		theta := float64(v[1])
		angle := math.Mod(theta*180/math.Pi, 180)
		// Keep only lines within 45 degrees of horizontal.
		if angle < 45 || angle > 135 {
			angles = append(angles, angle)
		}
	}
	if len(angles) == 0 {
		return 0.0
	}

	median := medianOf(angles)
	if median > 90 {
		median -= 180
	}
	return median
}

// CorrectSkew rotates the frame about its center to counter the detected
// skew. Angles below 0.1 degrees are treated as noise and left alone. The
// returned Mat is always a new allocation owned by the caller.
func (p *Preprocessor) CorrectSkew(frame gocv.Mat, angle float64) gocv.Mat {
	if math.Abs(angle) < 0.1 {
		return frame.Clone()
	}

	width := frame.Cols()
	height := frame.Rows()
	center := image.Pt(width/2, height/2)

	rotation := gocv.GetRotationMatrix2D(center, angle, 1.0)
	defer rotation.Close()

	rotated := gocv.NewMat()
	gocv.WarpAffineWithParams(frame, &rotated, rotation, image.Pt(width, height),
		gocv.InterpolationCubic, gocv.BorderReplicate, color.RGBA{})
	return rotated
}

// RemoveBorders crops the frame to the bounding box of its largest external
// contour plus padding. Frames with no contours are returned unchanged.
func (p *Preprocessor) RemoveBorders(frame gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return frame.Clone()
	}

	largest := 0
	largestArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largestArea = area
			largest = i
		}
	}
	box := gocv.BoundingRect(contours.At(largest))

	pad := p.cfg.BorderPadding
	x0 := max(0, box.Min.X-pad)
	y0 := max(0, box.Min.Y-pad)
	x1 := min(frame.Cols(), box.Max.X+pad)
	y1 := min(frame.Rows(), box.Max.Y+pad)

	region := frame.Region(image.Rect(x0, y0, x1, y1))
	defer region.Close()
	return region.Clone()
}

// DetectContentRegions finds text and diagram areas via adaptive
// thresholding, dropping tiny contours and sorting in reading order.
func (p *Preprocessor) DetectContentRegions(frame gocv.Mat) []entity.ContentRegion {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.AdaptiveThreshold(gray, &binary, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv, 11, 2)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var regions []entity.ContentRegion
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area < p.cfg.MinRegionArea {
			continue
		}
		box := gocv.BoundingRect(contours.At(i))
		regions = append(regions, entity.ContentRegion{
			Bounds: entity.BoundingBox{
				X:      box.Min.X,
				Y:      box.Min.Y,
				Width:  box.Dx(),
				Height: box.Dy(),
			},
			Area: area,
			Type: ClassifyRegionShape(box.Dx(), box.Dy()),
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Bounds.Y < regions[j].Bounds.Y
	})
	return regions
}

// ClassifyRegionShape labels a region by its aspect ratio: ratios in
// [0.1, 15] read as text lines, anything else as a diagram block.
func ClassifyRegionShape(width, height int) entity.RegionType {
	if height <= 0 {
		return entity.RegionDiagram
	}
	ratio := float64(width) / float64(height)
	if ratio >= 0.1 && ratio <= 15 {
		return entity.RegionText
	}
	return entity.RegionDiagram
}

// EnhanceText produces a high-contrast binary image tuned for OCR:
// dark-background slides are inverted, then CLAHE, edge-preserving
// denoising, and adaptive binarization are applied.
func (p *Preprocessor) EnhanceText(frame gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	if gray.Mean().Val1 < 127 {
		inverted := gocv.NewMat()
		gocv.BitwiseNot(gray, &inverted)
		gray.Close()
		gray = inverted
	}

	clahe := gocv.NewCLAHEWithParams(2.0, image.Pt(8, 8))
	defer clahe.Close()
	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(gray, &enhanced)

	denoised := gocv.NewMat()
	defer denoised.Close()
	gocv.BilateralFilter(enhanced, &denoised, 9, 75, 75)

	binary := gocv.NewMat()
	gocv.AdaptiveThreshold(denoised, &binary, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, 11, 2)
	return binary
}

// PreprocessForOCR runs the full pipeline: slide-likelihood gate, deskew,
// border removal, content-region detection, text enhancement. Rejections
// are normal control flow; the error return is reserved for transient
// processing failures.
func (p *Preprocessor) PreprocessForOCR(frame gocv.Mat) (PreprocessResult, error) {
	if frame.Empty() {
		return PreprocessResult{}, fmt.Errorf("preprocess: empty frame")
	}

	if !p.IsLikelySlide(frame) {
		return PreprocessResult{Reason: RejectNotSlide}, nil
	}

	angle := p.DetectSkew(frame)
	deskewed := p.CorrectSkew(frame, angle)
	defer deskewed.Close()

	cropped := p.RemoveBorders(deskewed)
	defer cropped.Close()

	regions := p.DetectContentRegions(cropped)
	if len(regions) == 0 {
		return PreprocessResult{Reason: RejectNoContent}, nil
	}

	enhanced := p.EnhanceText(cropped)
	return PreprocessResult{
		Accepted: true,
		Image:    enhanced,
		Regions:  regions,
	}, nil
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
