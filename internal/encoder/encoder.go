package encoder

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"go-nft-marker/internal/analyzer"
	apperrors "go-nft-marker/internal/errors"
	"go-nft-marker/internal/logger"
	"go-nft-marker/pkg/models"
)

// Magic tags of the three marker artifacts. These headers are a wire
// contract with the AR.js NFT loader and must not change.
var (
	magicFset  = [4]byte{'A', 'R', 'J', 'S'}
	magicFset3 = [4]byte{'A', 'R', '3', 'D'}
	magicIset  = [4]byte{'A', 'R', 'I', 'S'}
)

const formatVersion uint32 = 1

// MarkerEncoder turns a validated source image into the .fset, .fset3
// and .iset files an NFT tracking engine consumes. Once validation has
// passed, encoding never fails outright: any decode or resample problem
// degrades the affected files to deterministic placeholder payloads so
// a marker directory always holds all three files.
type MarkerEncoder struct {
	codec Codec
	log   *logrus.Entry
}

// NewMarkerEncoder creates an encoder using the given codec.
func NewMarkerEncoder(codec Codec) *MarkerEncoder {
	return &MarkerEncoder{
		codec: codec,
		log:   logger.WithComponent("marker_encoder"),
	}
}

// Encode writes the three marker files for img into outputDir. img may
// be nil when the codec could not decode the source; in that case all
// three files carry placeholder payloads keyed on the source path.
func (e *MarkerEncoder) Encode(img image.Image, imagePath, outputDir, markerName string, cfg models.NFTMarkerConfig) (*models.NFTMarker, error) {
	marker := &models.NFTMarker{
		ImagePath: imagePath,
		FsetPath:  filepath.Join(outputDir, markerName+".fset"),
		Fset3Path: filepath.Join(outputDir, markerName+".fset3"),
		IsetPath:  filepath.Join(outputDir, markerName+".iset"),
		DPI:       cfg.MinDPI,
	}

	if img == nil {
		e.log.WithFields(logrus.Fields{
			"marker": markerName,
			"codec":  e.codec.Name(),
		}).Warn("encoding degraded: no decoded image, writing placeholders")
		e.writePlaceholder(marker.FsetPath, "fset", imagePath)
		e.writePlaceholder(marker.Fset3Path, "fset3", imagePath)
		e.writePlaceholder(marker.IsetPath, "iset", imagePath)
		return marker, nil
	}

	width := img.Bounds().Dx()
	height := img.Bounds().Dy()
	marker.Width = width
	marker.Height = height

	gray := analyzer.ToGray(img)

	e.writeArtifact(marker.FsetPath, "fset", imagePath, func(buf *bytes.Buffer) error {
		return e.buildFset(buf, gray, width, height, cfg)
	})
	e.writeArtifact(marker.Fset3Path, "fset3", imagePath, func(buf *bytes.Buffer) error {
		return e.buildFset3(buf, width, height, cfg.Levels)
	})
	e.writeArtifact(marker.IsetPath, "iset", imagePath, func(buf *bytes.Buffer) error {
		return e.buildIset(buf, img, width, height, cfg.Levels)
	})

	return marker, nil
}

// writeArtifact builds one artifact into memory and writes it in a
// single pass. On any failure it falls back to the placeholder payload
// so the file always exists and is never partially written.
func (e *MarkerEncoder) writeArtifact(path, artifact, imagePath string, build func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	err := build(&buf)
	if err == nil {
		err = os.WriteFile(path, buf.Bytes(), 0o644)
		if err == nil {
			return
		}
	}
	e.logDegraded(path, artifact, err)
	e.writePlaceholder(path, artifact, imagePath)
}

func (e *MarkerEncoder) logDegraded(path, artifact string, err error) {
	degraded := apperrors.NewEncodingDegradedError(artifact+" encoding failed", err)
	e.log.WithFields(logrus.Fields{
		"artifact": artifact,
		"path":     path,
	}).WithError(degraded).Warn("encoding degraded: falling back to placeholder")
}

// writePlaceholder writes the deterministic degraded payload: a fixed
// ASCII tag plus a content hash of the source path. Errors here are
// logged, never raised.
func (e *MarkerEncoder) writePlaceholder(path, artifact, imagePath string) {
	if err := os.WriteFile(path, PlaceholderPayload(artifact, imagePath), 0o644); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"artifact": artifact,
			"path":     path,
		}).Error("placeholder write failed")
	}
}

// PlaceholderPayload is the degraded content for one artifact.
func PlaceholderPayload(artifact, imagePath string) []byte {
	sum := sha256.Sum256([]byte(imagePath))
	return []byte(fmt.Sprintf("NFTMARKER-PLACEHOLDER %s %s\n", artifact, hex.EncodeToString(sum[:])))
}

// buildFset writes the feature set: header plus the grid-scanned
// feature points at the configured density.
func (e *MarkerEncoder) buildFset(buf *bytes.Buffer, gray *image.Gray, width, height int, cfg models.NFTMarkerConfig) error {
	features := analyzer.ExtractFeatures(gray, cfg.FeatureDensity.GridStep())

	if _, err := buf.Write(magicFset[:]); err != nil {
		return err
	}
	header := []uint32{
		formatVersion,
		uint32(width),
		uint32(height),
		uint32(cfg.MinDPI),
		cfg.FeatureDensity.Code(),
		uint32(len(features)),
	}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return err
	}
	for _, f := range features {
		rec := struct{ X, Y, Score float32 }{float32(f.X), float32(f.Y), float32(f.Score)}
		if err := binary.Write(buf, binary.LittleEndian, rec); err != nil {
			return err
		}
	}
	return nil
}

// buildFset3 writes the pyramid metadata. The per-level feature count
// is the (level_width/10)*(level_height/10) density estimate the AR.js
// loader expects, not a recount of detected points.
func (e *MarkerEncoder) buildFset3(buf *bytes.Buffer, width, height, levels int) error {
	if _, err := buf.Write(magicFset3[:]); err != nil {
		return err
	}
	header := []uint32{formatVersion, uint32(width), uint32(height), uint32(levels)}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return err
	}
	for i := 0; i < levels; i++ {
		scale := 1 << i
		lw := width / scale
		lh := height / scale
		rec := []uint32{uint32(lw), uint32(lh), uint32((lw / 10) * (lh / 10))}
		if err := binary.Write(buf, binary.LittleEndian, rec); err != nil {
			return err
		}
	}
	return nil
}

// buildIset writes the grayscale image pyramid, each level resampled
// from the source with the codec's high-quality filter.
func (e *MarkerEncoder) buildIset(buf *bytes.Buffer, img image.Image, width, height, levels int) error {
	if _, err := buf.Write(magicIset[:]); err != nil {
		return err
	}
	header := []uint32{formatVersion, uint32(width), uint32(height), uint32(levels)}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return err
	}
	for i := 0; i < levels; i++ {
		scale := 1 << i
		lw := width / scale
		lh := height / scale
		if err := binary.Write(buf, binary.LittleEndian, []uint32{uint32(lw), uint32(lh)}); err != nil {
			return err
		}
		if lw == 0 || lh == 0 {
			continue
		}
		level := img
		if lw != width || lh != height {
			level = e.codec.Resample(img, lw, lh)
		}
		gray := analyzer.ToGray(level)
		if len(gray.Pix) != lw*lh {
			return fmt.Errorf("resample produced %d bytes, want %d", len(gray.Pix), lw*lh)
		}
		if _, err := buf.Write(gray.Pix); err != nil {
			return err
		}
	}
	return nil
}
