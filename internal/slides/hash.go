package slides

import (
	"crypto/md5"
	"encoding/hex"
	"image"

	"gocv.io/x/gocv"
)

// FrameHash computes a cheap perceptual fingerprint: md5 over a 32x32
// grayscale thumbnail. Used as a pre-filter so visually identical
// consecutive samples never reach OCR.
func FrameHash(frame gocv.Mat) string {
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	thumb := gocv.NewMat()
	defer thumb.Close()
	gocv.Resize(gray, &thumb, image.Pt(32, 32), 0, 0, gocv.InterpolationLinear)

	sum := md5.Sum(thumb.ToBytes())
	return hex.EncodeToString(sum[:])
}

// HashDifference returns the fraction of differing hex digits between two
// fingerprints, in [0, 1]. Identical inputs yield 0; hashes of unequal
// length compare over the shorter prefix.
func HashDifference(a, b string) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0.0
	}
	diff := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			diff++
		}
	}
	return float64(diff) / float64(n)
}
