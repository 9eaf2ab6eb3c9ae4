// Package local 实现基于本地文件系统的房间存储：上传根目录下每个房间一个子目录，文件按原始文件名保存.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

// tempPrefix 上传中的临时文件前缀，列表时会被跳过.
const tempPrefix = ".dontfile-upload-"

func init() {
	storage.RegisterFactory(configs.StorageTypeLocal, func(_ context.Context, cfg *configs.StorageConfig) (storage.Store, error) {
		return New(cfg.Root)
	})
}

// Store 本地文件系统存储.
type Store struct {
	root     string
	dirPerm  fs.FileMode
	filePerm fs.FileMode
}

// New 创建本地存储，root 不存在时自动创建.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("local storage root is empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %s: %w", root, err)
	}

	if err := os.MkdirAll(abs, configs.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", abs, err)
	}

	return &Store{root: abs, dirPerm: configs.DefaultDirPerm, filePerm: configs.DefaultFilePerm}, nil
}

// Root 返回上传根目录的绝对路径.
func (s *Store) Root() string { return s.root }

func (s *Store) Name() string { return string(configs.StorageTypeLocal) }

func (s *Store) roomDir(room types.RoomID) string {
	return filepath.Join(s.root, room.String())
}

func (s *Store) filePath(room types.RoomID, name string) (string, error) {
	if err := types.ValidateFileName(name); err != nil {
		return "", err
	}

	return filepath.Join(s.roomDir(room), name), nil
}

// List 读取房间目录，目录不存在时返回空切片.
func (s *Store) List(_ context.Context, room types.RoomID) ([]types.FileEntry, error) {
	entries, err := os.ReadDir(s.roomDir(room))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []types.FileEntry{}, nil
		}

		return nil, fmt.Errorf("read room %s: %w", room, err)
	}

	out := make([]types.FileEntry, 0, len(entries))

	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			// 列表期间被删除
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("stat %s/%s: %w", room, e.Name(), err)
		}

		out = append(out, entryFromInfo(info))
	}

	return out, nil
}

// Put 先写入房间目录内的临时文件，再原子重命名为目标文件名，同名文件以最后一次重命名为准.
func (s *Store) Put(ctx context.Context, room types.RoomID, name string, r io.Reader, _ int64) (types.FileEntry, error) {
	dst, err := s.filePath(room, name)
	if err != nil {
		return types.FileEntry{}, err
	}

	dir := s.roomDir(room)
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return types.FileEntry{}, wrapIOErr("create room "+room.String(), err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return types.FileEntry{}, wrapIOErr("create temp file", err)
	}

	tmpName := tmp.Name()
	committed := false

	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, &storage.ContextReader{Ctx: ctx, R: r}); err != nil {
		return types.FileEntry{}, wrapIOErr("write "+name, err)
	}

	if err := tmp.Chmod(s.filePerm); err != nil {
		return types.FileEntry{}, wrapIOErr("chmod "+name, err)
	}

	if err := tmp.Close(); err != nil {
		return types.FileEntry{}, wrapIOErr("close "+name, err)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)

		return types.FileEntry{}, wrapIOErr("commit "+name, err)
	}

	committed = true

	info, err := os.Stat(dst)
	if err != nil {
		return types.FileEntry{}, wrapIOErr("stat "+name, err)
	}

	return entryFromInfo(info), nil
}

// Open 打开房间内的文件.
func (s *Store) Open(_ context.Context, room types.RoomID, name string) (io.ReadSeekCloser, types.FileEntry, error) {
	p, err := s.filePath(room, name)
	if err != nil {
		return nil, types.FileEntry{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, types.FileEntry{}, wrapIOErr("open "+name, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, types.FileEntry{}, wrapIOErr("stat "+name, err)
	}

	if !info.Mode().IsRegular() {
		_ = f.Close()

		return nil, types.FileEntry{}, fmt.Errorf("open %s: %w", name, storage.ErrNotFound)
	}

	return f, entryFromInfo(info), nil
}

// Delete 删除单个文件.
func (s *Store) Delete(_ context.Context, room types.RoomID, name string) error {
	p, err := s.filePath(room, name)
	if err != nil {
		return err
	}

	info, err := os.Lstat(p)
	if err != nil {
		return wrapIOErr("stat "+name, err)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("delete %s: %w", name, storage.ErrNotFound)
	}

	if err := os.Remove(p); err != nil {
		return wrapIOErr("delete "+name, err)
	}

	return nil
}

// DeleteAll 删除房间目录下所有文件（包括残留的临时文件），目录本身保留.
func (s *Store) DeleteAll(ctx context.Context, room types.RoomID) (int, error) {
	entries, err := os.ReadDir(s.roomDir(room))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}

		return 0, fmt.Errorf("read room %s: %w", room, err)
	}

	deleted := 0

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		if e.IsDir() {
			continue
		}

		err := os.Remove(filepath.Join(s.roomDir(room), e.Name()))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, wrapIOErr("delete "+e.Name(), err)
		}

		if err == nil && !strings.HasPrefix(e.Name(), tempPrefix) {
			deleted++
		}
	}

	return deleted, nil
}

// Rooms 列出根目录下名称合法的房间目录.
func (s *Store) Rooms(_ context.Context) ([]types.RoomID, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read storage root: %w", err)
	}

	rooms := make([]types.RoomID, 0, len(entries))

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		id, err := types.ParseRoomID(e.Name())
		if err != nil {
			continue
		}

		rooms = append(rooms, id)
	}

	return rooms, nil
}

// HealthCheck 确认根目录存在且是目录.
func (s *Store) HealthCheck(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("stat storage root: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", s.root)
	}

	return nil
}

func (s *Store) Close() error { return nil }

func entryFromInfo(info fs.FileInfo) types.FileEntry {
	return types.FileEntry{
		Name:       info.Name(),
		Size:       info.Size(),
		UploadDate: info.ModTime().UTC(),
	}
}

// wrapIOErr 把文件系统错误映射到 storage 的哨兵错误，同时保留原始错误链.
func wrapIOErr(op string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w: %w", op, storage.ErrNotFound, err)
	case errors.Is(err, syscall.ENOSPC):
		return fmt.Errorf("%s: %w: %w", op, storage.ErrNoSpace, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
