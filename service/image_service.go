package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"adega-pos/repository"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// ImageService stores uploaded product images on disk and serves
// resized JPEG variants.
type ImageService struct {
	dir      string
	products repository.ProductRepositoryInterface
}

// NewImageService creates a new ImageService storing files under dir
func NewImageService(dir string, products repository.ProductRepositoryInterface) (*ImageService, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageService{dir: dir, products: products}, nil
}

// ImagePath returns the file path for a product image variant
func (s *ImageService) ImagePath(productID int64, size string) string {
	filename := fmt.Sprintf("product_%d_%s.jpg", productID, size)
	return filepath.Join(s.dir, filename)
}

// SaveProductImage decodes the uploaded image, writes thumb and medium
// variants, and points the product's image_url at the medium one. The
// product must exist.
func (s *ImageService) SaveProductImage(ctx context.Context, productID int64, imageData []byte) (string, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return "", err
	}

	for _, size := range []string{"thumb", "medium"} {
		optimized, err := optimizeImage(imageData, size)
		if err != nil {
			return "", err
		}
		path := s.ImagePath(productID, size)
		if err := os.WriteFile(path, optimized, 0644); err != nil {
			return "", fmt.Errorf("failed to write image %s: %w", path, err)
		}
		log.Printf("✓ Image saved: %s", path)
	}

	imageURL := fmt.Sprintf("/api/products/%d/image", productID)
	if err := s.products.SetImageURL(ctx, productID, imageURL); err != nil {
		return "", err
	}
	return imageURL, nil
}

// ReadProductImage returns the stored bytes for a variant ("thumb" or
// "medium", defaulting to medium).
func (s *ImageService) ReadProductImage(productID int64, size string) ([]byte, error) {
	if size != "thumb" {
		size = "medium"
	}
	data, err := os.ReadFile(s.ImagePath(productID, size))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image for product %d: %w", productID, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// optimizeImage converts to JPEG and resizes to the variant's max
// dimension, keeping aspect ratio.
func optimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	var maxDim, quality int
	switch size {
	case "thumb":
		maxDim = maxSizeThumb
		quality = qualityThumb
	default:
		maxDim = maxSizeMedium
		quality = qualityMedium
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = img
	if width > maxDim || height > maxDim {
		// Keep aspect ratio
		var newWidth, newHeight int
		if width > height {
			newWidth = maxDim
			newHeight = int(float64(height) * float64(maxDim) / float64(width))
		} else {
			newHeight = maxDim
			newWidth = int(float64(width) * float64(maxDim) / float64(height))
		}
		log.Printf("🔄 Resizing image: %dx%d -> %dx%d", width, height, newWidth, newHeight)
		resized = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
