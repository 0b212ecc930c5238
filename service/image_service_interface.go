package service

import "context"

// ImageServiceInterface defines the contract for product image operations
type ImageServiceInterface interface {
	SaveProductImage(ctx context.Context, productID int64, imageData []byte) (string, error)
	ReadProductImage(productID int64, size string) ([]byte, error)
}

// Ensure ImageService implements ImageServiceInterface
var _ ImageServiceInterface = (*ImageService)(nil)
