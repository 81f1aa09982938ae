package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var linkFile = os.Link

// localStorage writes objects as plain files below a root folder.
type localStorage struct {
	root string
}

// NewLocal returns a Storage backed by the directory root. The directory is
// created on demand by every Put, so it may be removed while the process runs.
func NewLocal(root string) (Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("save folder is required")
	}
	return &localStorage{root: root}, nil
}

func (l *localStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.root, key), nil
}

// Put writes r into a temporary file next to the target and publishes it with
// a hard link (IfNotExists) or a rename. Without hard link support the
// temporary file is copied into an exclusively created target instead. On
// any failure the temporary file is removed and key is left without a
// partial write.
func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	dst, err := l.path(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create save folder: %w", err)
	}

	tmp, err := os.CreateTemp(l.root, "."+key+".tmp-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return ObjectInfo{}, fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return ObjectInfo{}, fmt.Errorf("chmod %s: %w", key, err)
	}

	if opt.IfNotExists {
		err := linkFile(tmpName, dst)
		if err != nil && !errors.Is(err, fs.ErrExist) {
			// No hard links on this filesystem (FAT, SMB, some FUSE mounts).
			err = copyExclusive(tmpName, dst)
		}
		if errors.Is(err, fs.ErrExist) {
			return ObjectInfo{}, fmt.Errorf("%s: %w", key, ErrObjectExists)
		}
		if err != nil {
			return ObjectInfo{}, fmt.Errorf("publish %s: %w", key, err)
		}
	} else if err := os.Rename(tmpName, dst); err != nil {
		return ObjectInfo{}, fmt.Errorf("publish %s: %w", key, err)
	}

	st, err := os.Stat(dst)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}
	return ObjectInfo{
		Key:          key,
		Location:     dst,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

// copyExclusive creates dst, failing with fs.ErrExist if it is taken, and
// copies src into it. A failed copy removes dst again.
func copyExclusive(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// Delete removes the file stored under key. A missing file is not an error.
func (l *localStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
