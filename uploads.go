package pressroom

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/pressroom/content"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
)

// errUpload marks a rejected upload; its message is shown on the form.
var errUpload = errors.New("upload rejected")

// processImage decodes an image from src, resizes it to maxImageWidth when
// wider, and encodes it as JPEG.
func processImage(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := max(h*maxImageWidth/w, 1)
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// formFile returns the uploaded file for field, or nil when none was sent.
func formFile(c echo.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}

func readUpload(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if fh.Size > maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d MB", errUpload, fh.Filename, maxBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d MB", errUpload, fh.Filename, maxBytes>>20)
	}
	return data, nil
}

// imageInput resolves the image fields of an edit form. An uploaded file
// wins over image_url; remove_image clears the stored image; otherwise the
// field is left unset so the stored image is kept.
func imageInput(c echo.Context, maxBytes int64) (content.Optional[string], error) {
	var none content.Optional[string]

	fh, err := formFile(c, "image")
	if err != nil {
		return none, err
	}
	if fh != nil {
		data, err := readUpload(fh, maxBytes)
		if err != nil {
			return none, err
		}
		jpg, err := processImage(bytes.NewReader(data))
		if err != nil {
			return none, fmt.Errorf("%w: %s is not a supported image", errUpload, fh.Filename)
		}
		return content.Set(dataURL("image/jpeg", jpg)), nil
	}

	if u := strings.TrimSpace(c.FormValue("image_url")); u != "" {
		lower := strings.ToLower(u)
		if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
			return none, fmt.Errorf("%w: image URL must start with http:// or https://", errUpload)
		}
		return content.Set(u), nil
	}

	if c.FormValue("remove_image") != "" {
		return content.Set(""), nil
	}
	return none, nil
}

// attachmentInput reads the attachment field into a data URL that keeps the
// file's type and original name.
func attachmentInput(c echo.Context, maxBytes int64) (content.Optional[content.Attachment], error) {
	var none content.Optional[content.Attachment]

	fh, err := formFile(c, "attachment")
	if err != nil {
		return none, err
	}
	if fh != nil {
		data, err := readUpload(fh, maxBytes)
		if err != nil {
			return none, err
		}
		return content.Set(content.Attachment{
			Name: filepath.Base(fh.Filename),
			Data: dataURL(uploadType(fh, data), data),
		}), nil
	}

	if c.FormValue("remove_attachment") != "" {
		return content.Set(content.Attachment{}), nil
	}
	return none, nil
}

// uploadType prefers the type the browser declared and falls back to
// sniffing the content.
func uploadType(fh *multipart.FileHeader, data []byte) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
