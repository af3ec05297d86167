package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	ico "github.com/biessek/golang-ico"
	"github.com/jackmordaunt/icns/v3"
	"github.com/nfnt/resize"

	// Raster decoders for the formats accepted as icon sources.
	_ "image/gif"
	_ "image/jpeg"
)

// sourceKind is the icon source variant, resolved once from the file extension.
type sourceKind int

const (
	// kindNative is the canonical .icns container, copied byte for byte.
	kindNative sourceKind = iota
	// kindRaster is a single raster image rendered into the full size ladder.
	kindRaster
	// kindLegacy is a multi-frame .ico container.
	kindLegacy
)

// baseIconSize is the largest entry of the icon size ladder; sources below it
// are upscaled so the encoded container carries every required resolution.
const baseIconSize = 1024

// entryHeaderSize is the OSType tag plus the big-endian length prefix
// shared by the container header and every entry inside it.
const entryHeaderSize = 8

// targetFileMode is used for the produced icon file.
const targetFileMode os.FileMode = 0o644

// ErrUnsupportedFormat is returned for icon sources outside
// the supported set (.icns, .ico, .png, .jpg, .jpeg, .gif).
var ErrUnsupportedFormat = errors.New("unsupported icon format")

// errEmptyContainer is returned for a legacy container with no frames.
var errEmptyContainer = errors.New("icon container has no frames")

// smallLadderEntry is an icon container entry below the floor of the icns
// encoder, emitted by hand so the container carries the complete size ladder.
type smallLadderEntry struct {
	osType string
	side   uint
}

// smallLadder holds the 16px and 32px point-size entries the icns encoder
// does not produce on its own.
var smallLadder = []smallLadderEntry{
	{osType: "icp4", side: 16},
	{osType: "icp5", side: 32},
}

// Normalize converts the icon at sourcePath into a canonical multi-resolution
// .icns file at targetPath.
func Normalize(sourcePath, targetPath string) error {
	kind, err := detectKind(sourcePath)
	if err != nil {
		return err
	}

	switch kind {
	case kindNative:
		if err = copyFile(sourcePath, targetPath); err != nil {
			return fmt.Errorf("copy icon: %w", err)
		}

		return nil
	case kindLegacy:
		img, err := decodeLegacy(sourcePath)
		if err != nil {
			return fmt.Errorf("decode legacy icon %s: %w", sourcePath, err)
		}

		return encodeICNS(img, targetPath)
	case kindRaster:
		img, err := decodeRaster(sourcePath)
		if err != nil {
			return fmt.Errorf("decode icon %s: %w", sourcePath, err)
		}

		return encodeICNS(img, targetPath)
	default:
		return fmt.Errorf("%s: %w", sourcePath, ErrUnsupportedFormat)
	}
}

// detectKind resolves the source variant from the file extension.
func detectKind(sourcePath string) (sourceKind, error) {
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".icns":
		return kindNative, nil
	case ".ico":
		return kindLegacy, nil
	case ".png", ".jpg", ".jpeg", ".gif":
		return kindRaster, nil
	default:
		return 0, fmt.Errorf("%s: %w", sourcePath, ErrUnsupportedFormat)
	}
}

// decodeRaster reads a single raster image.
func decodeRaster(sourcePath string) (image.Image, error) {
	file, err := os.Open(filepath.Clean(sourcePath))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = file.Close()
	}()

	img, _, err := image.Decode(file)

	return img, err
}

// decodeLegacy picks the highest-resolution frame of a legacy icon container.
// Containers order frames smallest first, so on equal bounds the later frame wins.
func decodeLegacy(sourcePath string) (image.Image, error) {
	file, err := os.Open(filepath.Clean(sourcePath))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = file.Close()
	}()

	frames, err := ico.DecodeAll(file)
	if err != nil {
		return nil, err
	}

	if len(frames) == 0 {
		return nil, errEmptyContainer
	}

	best := frames[0]
	for _, frame := range frames[1:] {
		if frameArea(frame) >= frameArea(best) {
			best = frame
		}
	}

	return best, nil
}

// frameArea is the pixel area of a frame.
func frameArea(img image.Image) int {
	bounds := img.Bounds()

	return bounds.Dx() * bounds.Dy()
}

// encodeICNS renders the image into the multi-resolution .icns container.
// Smaller sources are upscaled to the ladder base first, and the two
// point-size entries below the encoder's floor are appended by hand,
// so every required raster size ends up in the container.
func encodeICNS(img image.Image, targetPath string) error {
	bounds := img.Bounds()
	if bounds.Dx() < baseIconSize || bounds.Dy() < baseIconSize {
		img = resize.Resize(baseIconSize, baseIconSize, img, resize.Lanczos3)
	}

	var container bytes.Buffer
	if err := icns.Encode(&container, img); err != nil {
		return fmt.Errorf("encode icns: %w", err)
	}

	data := container.Bytes()

	for _, entry := range smallLadder {
		chunk, err := encodeSmallEntry(img, entry)
		if err != nil {
			return fmt.Errorf("encode %s entry: %w", entry.osType, err)
		}

		data = append(data, chunk...)
	}

	// The container header carries the total file length, so appending
	// entries means patching it back up.
	binary.BigEndian.PutUint32(data[4:entryHeaderSize], uint32(len(data)))

	if err := os.WriteFile(filepath.Clean(targetPath), data, targetFileMode); err != nil {
		return fmt.Errorf("create icon file: %w", err)
	}

	return nil
}

// encodeSmallEntry renders one container entry: the OSType tag, the entry
// length and a PNG payload scaled down to the entry side.
func encodeSmallEntry(img image.Image, entry smallLadderEntry) ([]byte, error) {
	scaled := resize.Resize(entry.side, entry.side, img, resize.Lanczos3)

	var payload bytes.Buffer
	if err := png.Encode(&payload, scaled); err != nil {
		return nil, err
	}

	chunk := make([]byte, entryHeaderSize, entryHeaderSize+payload.Len())
	copy(chunk, entry.osType)
	chunk = append(chunk, payload.Bytes()...)
	binary.BigEndian.PutUint32(chunk[4:entryHeaderSize], uint32(len(chunk)))

	return chunk, nil
}

// copyFile copies source bytes to target, truncating any previous content.
func copyFile(sourcePath, targetPath string) error {
	source, err := os.Open(filepath.Clean(sourcePath))
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close()
	}()

	target, err := os.OpenFile(filepath.Clean(targetPath), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, targetFileMode)
	if err != nil {
		return err
	}

	defer func() {
		_ = target.Close()
	}()

	if _, err = io.Copy(target, source); err != nil {
		return err
	}

	return target.Sync()
}
