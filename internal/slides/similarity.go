package slides

import (
	"image"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
	"gocv.io/x/gocv"
)

// JudgeConfig holds the duplicate-decision thresholds.
type JudgeConfig struct {
	TextThreshold   float64
	VisualThreshold float64
}

func DefaultJudgeConfig() JudgeConfig {
	return JudgeConfig{
		TextThreshold:   0.8,
		VisualThreshold: 0.85,
	}
}

// Judge decides whether a candidate frame duplicates a previously accepted
// slide, combining OCR-text similarity with a visual histogram tie-breaker.
type Judge struct {
	cfg JudgeConfig
}

func NewJudge(cfg JudgeConfig) *Judge {
	return &Judge{cfg: cfg}
}

// visual comparisons happen on a fixed small canvas for efficiency
const compareSize = 300

// TextSimilarity scores two strings in [0, 1] as the mean of an
// edit-distance ratio over the raw strings and a word-overlap ratio
// (intersection over the larger word set). Symmetric; 0 when either word
// set is empty.
func (j *Judge) TextSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	editRatio := editDistanceRatio(a, b)

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	overlap := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			overlap++
		}
	}
	overlapRatio := float64(overlap) / float64(max(len(wordsA), len(wordsB)))

	return (editRatio + overlapRatio) / 2
}

func editDistanceRatio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

// VisualSimilarity correlates normalized grayscale intensity histograms of
// the two images, both resized to a 300x300 canvas. Negative correlation
// clamps to 0.
func (j *Judge) VisualSimilarity(imgA, imgB gocv.Mat) float64 {
	if imgA.Empty() || imgB.Empty() {
		return 0.0
	}

	histA, ok := intensityHistogram(imgA)
	if !ok {
		return 0.0
	}
	defer histA.Close()

	histB, ok := intensityHistogram(imgB)
	if !ok {
		return 0.0
	}
	defer histB.Close()

	correlation := float64(gocv.CompareHist(histA, histB, gocv.HistCmpCorrel))
	return math.Max(0, correlation)
}

func intensityHistogram(img gocv.Mat) (gocv.Mat, bool) {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(img, &resized, image.Pt(compareSize, compareSize), 0, 0, gocv.InterpolationLinear)

	gray := gocv.NewMat()
	defer gray.Close()
	if resized.Channels() > 1 {
		gocv.CvtColor(resized, &gray, gocv.ColorBGRToGray)
	} else {
		resized.CopyTo(&gray)
	}

	mask := gocv.NewMat()
	defer mask.Close()

	hist := gocv.NewMat()
	gocv.CalcHist([]gocv.Mat{gray}, []int{0}, mask, &hist, []int{256}, []float64{0, 256}, false)
	gocv.Normalize(hist, &hist, 1, 0, gocv.NormL2)
	return hist, true
}

// IsSimilar makes the binary duplicate decision. Clearly-distinct and
// clearly-duplicate text short-circuits; ambiguous text falls through to a
// combined text+visual score when both images are available.
func (j *Judge) IsSimilar(textA, textB string, imgA, imgB *gocv.Mat) bool {
	t := j.TextSimilarity(textA, textB)

	if t < j.cfg.TextThreshold/2 {
		return false
	}
	if t > j.cfg.TextThreshold*1.5 {
		return true
	}

	if imgA != nil && imgB != nil {
		v := j.VisualSimilarity(*imgA, *imgB)
		combined := (t + v) / 2
		return combined > (j.cfg.TextThreshold+j.cfg.VisualThreshold)/2
	}

	return t > j.cfg.TextThreshold
}

// AnySimilar reports whether the candidate duplicates any entry in the
// history window. History order does not affect the result.
func (j *Judge) AnySimilar(text string, img *gocv.Mat, history []HistoryEntry) bool {
	for i := range history {
		prev := &history[i]
		var prevImg *gocv.Mat
		if !prev.Image.Empty() {
			prevImg = &prev.Image
		}
		if j.IsSimilar(text, prev.Text, img, prevImg) {
			return true
		}
	}
	return false
}
