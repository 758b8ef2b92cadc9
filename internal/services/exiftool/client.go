package exiftool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	exif "github.com/barasher/go-exiftool"

	"reunite/internal/services"
	"reunite/internal/sidecar"
)

// exiftool reads and writes capture timestamps in this layout.
const dateTimeLayout = "2006:01:02 15:04:05"

// Tag keys written and verified. Bare keys let exiftool route each value to
// the right group for the container (EXIF for JPEG, QuickTime for MP4/MOV).
const (
	tagTitle        = "Title"
	tagDescription  = "Description"
	tagDateTime     = "DateTimeOriginal"
	tagGPSLatitude  = "GPSLatitude"
	tagGPSLongitude = "GPSLongitude"
	tagGPSLatRef    = "GPSLatitudeRef"
	tagGPSLonRef    = "GPSLongitudeRef"
	tagFileType     = "FileType"
)

// Option configures the client.
type Option func(*Client)

// WithBinary overrides the exiftool executable path.
func WithBinary(path string) Option {
	return func(c *Client) {
		if strings.TrimSpace(path) != "" {
			c.binary = path
		}
	}
}

// Client drives a persistent exiftool process.
type Client struct {
	binary string
	et     *exif.Exiftool
}

// New starts the underlying exiftool process.
func New(opts ...Option) (*Client, error) {
	client := &Client{binary: "exiftool"}
	for _, opt := range opts {
		opt(client)
	}

	// Numeric output keeps GPS coordinates as signed decimals on read-back.
	et, err := exif.NewExiftool(
		exif.SetExiftoolBinaryPath(client.binary),
		exif.NoPrintConversion(),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "exiftool", "start", "launching "+client.binary, err)
	}
	client.et = et
	return client, nil
}

// Close terminates the exiftool process.
func (c *Client) Close() error {
	if c == nil || c.et == nil {
		return nil
	}
	return c.et.Close()
}

// FileType returns exiftool's detected container type (e.g. "JPEG", "HEIC").
func (c *Client) FileType(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fms := c.et.ExtractMetadata(path)
	if len(fms) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "exiftool", "filetype", "no output for "+path, nil)
	}
	if fms[0].Err != nil {
		return "", services.Wrap(services.ErrExternalTool, "exiftool", "filetype", path, fms[0].Err)
	}
	kind, err := fms[0].GetString(tagFileType)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "exiftool", "filetype", "missing FileType for "+path, err)
	}
	return kind, nil
}

// Embed writes the sidecar's title, description, capture time, and GPS
// coordinates into the media file, overwriting the original in place.
func (c *Client) Embed(ctx context.Context, mediaPath string, meta *sidecar.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meta == nil {
		return services.Wrap(services.ErrUnreadableSidecar, "exiftool", "embed", "nil metadata for "+mediaPath, nil)
	}

	fm := exif.EmptyFileMetadata()
	fm.File = mediaPath

	fm.SetString(tagTitle, meta.Title)
	fm.SetString(tagDescription, meta.Description)
	if taken, ok := meta.TakenTime(); ok {
		fm.SetString(tagDateTime, taken.Format(dateTimeLayout))
	}
	if meta.HasGeo() {
		fm.SetFloat(tagGPSLatitude, meta.GeoData.Latitude)
		fm.SetFloat(tagGPSLongitude, meta.GeoData.Longitude)
		fm.SetString(tagGPSLatRef, latitudeRef(meta.GeoData.Latitude))
		fm.SetString(tagGPSLonRef, longitudeRef(meta.GeoData.Longitude))
	}

	batch := []exif.FileMetadata{fm}
	c.et.WriteMetadata(batch)
	if batch[0].Err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftool", "embed", mediaPath, batch[0].Err)
	}
	return nil
}

// Verify re-reads the media file and compares every field Embed wrote:
// exact string equality for title and description, second-resolution
// equality for the capture time, and a 1e-6 tolerance for GPS coordinates.
// It returns an ErrVerification-tagged error listing each mismatch.
func (c *Client) Verify(ctx context.Context, mediaPath string, meta *sidecar.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if meta == nil {
		return services.Wrap(services.ErrUnreadableSidecar, "exiftool", "verify", "nil metadata for "+mediaPath, nil)
	}

	fms := c.et.ExtractMetadata(mediaPath)
	if len(fms) == 0 {
		return services.Wrap(services.ErrExternalTool, "exiftool", "verify", "no output for "+mediaPath, nil)
	}
	if fms[0].Err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftool", "verify", mediaPath, fms[0].Err)
	}
	fm := fms[0]

	var mismatches []string

	if got, err := fm.GetString(tagTitle); err != nil || got != meta.Title {
		mismatches = append(mismatches, fmt.Sprintf("title: embedded=%q want=%q", got, meta.Title))
	}
	if got, err := fm.GetString(tagDescription); err != nil || got != meta.Description {
		mismatches = append(mismatches, fmt.Sprintf("description: embedded=%q want=%q", got, meta.Description))
	}
	if taken, ok := meta.TakenTime(); ok {
		want := taken.Format(dateTimeLayout)
		if got, err := fm.GetString(tagDateTime); err != nil || got != want {
			mismatches = append(mismatches, fmt.Sprintf("datetime: embedded=%q want=%q", got, want))
		}
	}
	if meta.HasGeo() {
		if got, err := fm.GetFloat(tagGPSLatitude); err != nil || !coordEqual(got, meta.GeoData.Latitude) {
			mismatches = append(mismatches, fmt.Sprintf("gps latitude: embedded=%v want=%v", got, meta.GeoData.Latitude))
		}
		if got, err := fm.GetFloat(tagGPSLongitude); err != nil || !coordEqual(got, meta.GeoData.Longitude) {
			mismatches = append(mismatches, fmt.Sprintf("gps longitude: embedded=%v want=%v", got, meta.GeoData.Longitude))
		}
	}

	if len(mismatches) > 0 {
		return services.Wrap(services.ErrVerification, "exiftool", "verify", strings.Join(mismatches, "; "), nil)
	}
	return nil
}

// coordTolerance bounds acceptable drift between written and read-back GPS
// coordinates.
const coordTolerance = 1e-6

func coordEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < coordTolerance
}

func latitudeRef(lat float64) string {
	if lat < 0 {
		return "S"
	}
	return "N"
}

func longitudeRef(lon float64) string {
	if lon < 0 {
		return "W"
	}
	return "E"
}

// IsVerificationMismatch reports whether err is a read-back mismatch rather
// than a tool failure.
func IsVerificationMismatch(err error) bool {
	return errors.Is(err, services.ErrVerification)
}
