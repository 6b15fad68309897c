package images

import (
	"crypto/md5"
	"fmt"
	"image"
)

// ComputeChecksum generates a deterministic checksum of the pixels of img,
// used to verify that repeated runs over the same input are idempotent.
//
// Arguments:
// - img: The image to compute the checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string, or "empty" for nil or zero-area images.
//
// Example:
//
// ```go
//
//	sum := ComputeChecksum(out)
//	fmt.Printf("output checksum: %s\n", sum)
//
// ```
func ComputeChecksum(img *image.NRGBA) string {
	if img == nil || img.Bounds().Empty() {
		return "empty"
	}

	hash := md5.New()
	fmt.Fprintf(hash, "%dx%d:", img.Bounds().Dx(), img.Bounds().Dy())
	w := img.Bounds().Dx() * 4
	for y := 0; y < img.Bounds().Dy(); y++ {
		hash.Write(img.Pix[y*img.Stride : y*img.Stride+w])
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}
