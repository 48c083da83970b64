package port

import "context"

// Zipper bundles result files (slide JPEGs plus analysis JSON) into a
// single archive for upload.
type Zipper interface {
	CreateZip(ctx context.Context, filePaths []string, outputPath string) error
}
