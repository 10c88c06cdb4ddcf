package pack

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Archive entries carry a fixed timestamp so identical input produces
// identical listings across runs.
var epoch = time.Unix(0, 0).UTC()

// writeZip produces a zip archive at dst containing the binary under
// its bare name.
func writeZip(dst, binaryPath, binaryName string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	in, err := os.Open(binaryPath)
	if err != nil {
		zw.Close()
		return err
	}
	defer in.Close()

	hdr := &zip.FileHeader{
		Name:     binaryName,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	hdr.SetMode(0o755)

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		zw.Close()
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		zw.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// writeTarGz produces a gzip-compressed tar archive at dst containing
// the binary under its bare name.
func writeTarGz(dst, binaryPath, binaryName string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(gz)

	in, err := os.Open(binaryPath)
	if err != nil {
		return closeAll(err, tw, gz)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return closeAll(err, tw, gz)
	}

	hdr := &tar.Header{
		Name:    binaryName,
		Mode:    0o755,
		Size:    info.Size(),
		ModTime: epoch,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return closeAll(err, tw, gz)
	}
	if _, err := io.Copy(tw, in); err != nil {
		return closeAll(err, tw, gz)
	}

	if err := tw.Close(); err != nil {
		return closeAll(err, gz)
	}
	if err := gz.Close(); err != nil {
		return err
	}
	return f.Close()
}

// closeAll closes writers in order and returns the original error.
func closeAll(err error, closers ...io.Closer) error {
	for _, c := range closers {
		c.Close()
	}
	return err
}

// ensureDir creates the output directory for an artifact path.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}
	return nil
}
