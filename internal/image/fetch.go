package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/youruser/posterboxd/internal/util"
)

// Fetcher retrieves raw asset bytes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchError reports an asset that could not be retrieved or decoded.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPFetcher fetches assets over HTTP. The client timeout bounds every fetch.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = util.NewClient(0)
	}
	return &HTTPFetcher{Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	b, err := util.GetBytes(ctx, f.Client, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return b, nil
}

// Download fetches url and decodes it, honoring EXIF orientation.
func Download(ctx context.Context, f Fetcher, url string) (image.Image, error) {
	b, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err := Decode(b)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return img, nil
}

func Decode(b []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
}
