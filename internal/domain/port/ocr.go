package port

import "context"

// OCREngine extracts text from a preprocessed, OCR-ready image. The image
// is a PNG-encoded binary (black text on white) produced by the frame
// preprocessor. Implementations must bound their own runtime and return an
// empty string, not an error, for illegible input.
type OCREngine interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
