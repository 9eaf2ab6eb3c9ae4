// Package s3 实现基于 MinIO / S3 兼容对象存储的房间存储，房间映射为对象键前缀.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/types"
	nlog "github.com/yeisme/dontfile/pkg/log"
)

// 对象存储返回的、表示空间不足的错误码.
var noSpaceCodes = map[string]struct{}{
	"XMinioStorageFull":    {},
	"XMinioDiskFull":       {},
	"InsufficientCapacity": {},
}

func init() {
	storage.RegisterFactory(configs.StorageTypeS3, func(ctx context.Context, cfg *configs.StorageConfig) (storage.Store, error) {
		return New(ctx, cfg.S3)
	})
}

// Client 包装 MinIO 客户端.
type Client struct {
	cli    *minio.Client
	bucket string
	prefix string
}

// New 初始化 MinIO 客户端，若 bucket 不存在则尝试创建.
func New(ctx context.Context, cfg configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("dontfile", configs.AppVersion)

	if cfg.BucketName == "" {
		return nil, errors.New("s3 bucket name is empty")
	}

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{cli: cli, bucket: cfg.BucketName, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

func (c *Client) Name() string { return string(configs.StorageTypeS3) }

// roomPrefix 房间键前缀，总以 / 结尾.
func (c *Client) roomPrefix(room types.RoomID) string {
	return path.Join(c.prefix, room.String()) + "/"
}

func (c *Client) rootPrefix() string {
	if c.prefix == "" {
		return ""
	}

	return c.prefix + "/"
}

func (c *Client) key(room types.RoomID, name string) (string, error) {
	if err := types.ValidateFileName(name); err != nil {
		return "", err
	}

	return c.roomPrefix(room) + name, nil
}

// List 非递归列出房间前缀下的对象.
func (c *Client) List(ctx context.Context, room types.RoomID) ([]types.FileEntry, error) {
	prefix := c.roomPrefix(room)
	out := []types.FileEntry{}

	for obj := range c.cli.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, mapErr("list "+room.String(), obj.Err)
		}

		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}

		out = append(out, types.FileEntry{Name: name, Size: obj.Size, UploadDate: obj.LastModified.UTC()})
	}

	return out, nil
}

// Put 单次 PutObject 写入，对象存储保证对象整体可见或不可见.
func (c *Client) Put(ctx context.Context, room types.RoomID, name string, r io.Reader, size int64) (types.FileEntry, error) {
	key, err := c.key(room, name)
	if err != nil {
		return types.FileEntry{}, err
	}

	if size < 0 {
		size = storage.UnknownSize
	}

	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}

	info, err := c.cli.PutObject(ctx, c.bucket, key, &storage.ContextReader{Ctx: ctx, R: r}, size, minio.PutObjectOptions{ContentType: ct})
	if err != nil {
		return types.FileEntry{}, mapErr("put "+name, err)
	}

	modified := info.LastModified
	if modified.IsZero() {
		modified = time.Now()
	}

	return types.FileEntry{Name: name, Size: info.Size, UploadDate: modified.UTC()}, nil
}

// Open 返回可 Seek 的对象读取器，不存在时返回 ErrNotFound.
func (c *Client) Open(ctx context.Context, room types.RoomID, name string) (io.ReadSeekCloser, types.FileEntry, error) {
	key, err := c.key(room, name)
	if err != nil {
		return nil, types.FileEntry{}, err
	}

	obj, err := c.cli.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, types.FileEntry{}, mapErr("get "+name, err)
	}

	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()

		return nil, types.FileEntry{}, mapErr("stat "+name, err)
	}

	return obj, types.FileEntry{Name: name, Size: st.Size, UploadDate: st.LastModified.UTC()}, nil
}

// Delete 先 Stat 再删除，RemoveObject 对不存在的键不会报错.
func (c *Client) Delete(ctx context.Context, room types.RoomID, name string) error {
	key, err := c.key(room, name)
	if err != nil {
		return err
	}

	if _, err := c.cli.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{}); err != nil {
		return mapErr("stat "+name, err)
	}

	if err := c.cli.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapErr("delete "+name, err)
	}

	return nil
}

// DeleteAll 批量删除房间前缀下的对象.
func (c *Client) DeleteAll(ctx context.Context, room types.RoomID) (int, error) {
	prefix := c.roomPrefix(room)
	objectsCh := make(chan minio.ObjectInfo)
	listed := 0

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(objectsCh)

		for obj := range c.cli.ListObjects(gctx, c.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
			if obj.Err != nil {
				return mapErr("list "+room.String(), obj.Err)
			}

			if strings.HasSuffix(obj.Key, "/") {
				continue
			}

			select {
			case objectsCh <- obj:
				listed++
			case <-gctx.Done():
				return gctx.Err()
			}
		}

		return nil
	})

	failed := 0

	var firstErr error

	for rerr := range c.cli.RemoveObjects(gctx, c.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		failed++

		if firstErr == nil {
			firstErr = mapErr("delete "+rerr.ObjectName, rerr.Err)
		}
	}

	if err := g.Wait(); err != nil {
		return listed - failed, err
	}

	if firstErr != nil {
		return listed - failed, firstErr
	}

	return listed, nil
}

// Rooms 通过公共前缀列出房间.
func (c *Client) Rooms(ctx context.Context) ([]types.RoomID, error) {
	root := c.rootPrefix()
	rooms := []types.RoomID{}

	for obj := range c.cli.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: root}) {
		if obj.Err != nil {
			return nil, mapErr("list rooms", obj.Err)
		}

		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}

		id, err := types.ParseRoomID(strings.TrimSuffix(strings.TrimPrefix(obj.Key, root), "/"))
		if err != nil {
			continue
		}

		rooms = append(rooms, id)
	}

	return rooms, nil
}

// HealthCheck 通过检查桶是否存在验证连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	ok, err := c.cli.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("bucket %s does not exist", c.bucket)
	}

	return nil
}

// Close 关闭 S3 客户端连接（无实际操作，接口兼容）.
func (c *Client) Close() error {
	return nil
}

// mapErr 把 S3 错误码映射为 storage 的哨兵错误.
func mapErr(op string, err error) error {
	if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp := minio.ToErrorResponse(err)

	switch {
	case resp.Code == "NoSuchKey":
		return fmt.Errorf("%s: %w: %w", op, storage.ErrNotFound, err)
	case isNoSpace(resp.Code):
		return fmt.Errorf("%s: %w: %w", op, storage.ErrNoSpace, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isNoSpace(code string) bool {
	_, ok := noSpaceCodes[code]

	return ok
}
