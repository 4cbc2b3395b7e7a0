package scene

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	_ "golang.org/x/image/webp"
)

// ErrImage wraps every failure to load an image source. A document whose
// images fail still loads; only the pixels are missing.
var ErrImage = errors.New("image unavailable")

// ImageLoader decodes the image referenced by src.
type ImageLoader func(src string) (image.Image, error)

func decodeFile(src string) (image.Image, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src, err)
	}
	return img, nil
}

// imageCache memoizes decoded images by source so restores do not re-read files.
// Failures are not cached.
type imageCache struct {
	load ImageLoader

	mu     sync.Mutex
	images map[string]image.Image
}

func newImageCache(load ImageLoader) *imageCache {
	return &imageCache{load: load, images: make(map[string]image.Image)}
}

func (c *imageCache) get(src string) (image.Image, error) {
	c.mu.Lock()
	img, ok := c.images[src]
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := c.load(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImage, src, err)
	}

	c.mu.Lock()
	c.images[src] = img
	c.mu.Unlock()
	return img, nil
}
