package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogpu/mandel"
)

// open opens path for reading. A missing file yields (nil, nil).
func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return f, nil
}

// IdentifyFile returns the kind of the record stored at path. A missing file
// is Unrecognized without error; a file that exists but cannot be read
// returns ErrIO.
func IdentifyFile(path string) (Kind, error) {
	f, err := open(path)
	if f == nil {
		return Unrecognized, err
	}
	defer f.Close()
	return identify(f)
}

// ValidateFile reports whether path holds a complete record of kind k. A
// missing, truncated or mistagged file is simply not valid; ErrIO is
// returned only when the file exists but cannot be read.
func ValidateFile(path string, k Kind) (bool, error) {
	f, err := open(path)
	if f == nil {
		return false, err
	}
	defer f.Close()
	if err := validate(f, k); err != nil {
		if errors.Is(err, ErrIO) {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// DetectAndLoad identifies the record at path, validates it and loads it
// into the matching part of snap. It returns the kind loaded.
//
// A missing file, an unknown tag or a record that fails validation is not
// an error: DetectAndLoad returns Unrecognized and leaves snap untouched,
// which is the normal outcome before the first checkpoint is written. Only
// I/O failures are reported.
func DetectAndLoad(path string, snap *Snapshot) (Kind, error) {
	log := mandel.Logger()

	f, err := open(path)
	if f == nil {
		if err == nil {
			log.Debug("checkpoint absent", "path", path)
		}
		return Unrecognized, err
	}
	defer f.Close()

	k, err := identify(f)
	if err != nil {
		return Unrecognized, err
	}
	if k == Unrecognized {
		log.Debug("checkpoint not recognized", "path", path)
		return Unrecognized, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Unrecognized, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := validate(f, k); err != nil {
		if errors.Is(err, ErrIO) {
			return Unrecognized, err
		}
		log.Debug("checkpoint invalid", "path", path, "kind", k, "err", err)
		return Unrecognized, nil
	}

	if _, err := f.Seek(TagSize, io.SeekStart); err != nil {
		return Unrecognized, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := Load(f, k, snap); err != nil {
		return Unrecognized, err
	}
	log.Debug("checkpoint loaded", "path", path, "kind", k)
	return k, nil
}

// SaveFile writes the record of kind k from snap to path. The record is
// written to a temporary file in the same directory and renamed over path,
// so a crash never leaves a half-written checkpoint behind.
func SaveFile(path string, k Kind, snap *Snapshot) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = Save(f, k, snap); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// LoadDir runs DetectAndLoad on the default file of every kind in dir and
// returns the kinds found.
func LoadDir(dir string, snap *Snapshot) ([]Kind, error) {
	var found []Kind
	for _, k := range Kinds() {
		got, err := DetectAndLoad(filepath.Join(dir, k.DefaultFile()), snap)
		if err != nil {
			return found, err
		}
		if got != Unrecognized {
			found = append(found, got)
		}
	}
	return found, nil
}

// SaveDir writes every part present in snap to its default file in dir.
func SaveDir(dir string, snap *Snapshot) error {
	for _, k := range Kinds() {
		if !snap.Has(k) {
			continue
		}
		if err := SaveFile(filepath.Join(dir, k.DefaultFile()), k, snap); err != nil {
			return err
		}
	}
	return nil
}
