// Package client 是房间文件 API 的 Go 客户端，命令行的 room 子命令基于它实现.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/yeisme/dontfile/pkg/internal/types"
)

// DefaultBaseURL 本地默认服务地址.
const DefaultBaseURL = "http://localhost:3000"

// UnknownTotal 上传总大小未知时传给进度回调的 total.
const UnknownTotal int64 = -1

// ProgressFunc 上传进度回调，total 为 UnknownTotal 时表示进度不确定.
type ProgressFunc func(sent, total int64)

// APIError 服务端返回的非 2xx 响应.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("dontfile: %d %s", e.Status, http.StatusText(e.Status))
	}

	return fmt.Sprintf("dontfile: %d %s", e.Status, e.Message)
}

// IsNotFound 判断错误是否为 404.
func IsNotFound(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client 房间 API 客户端.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New 创建客户端，baseURL 为空时使用 DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}

	return http.DefaultClient
}

// endpoint 规范化房间名并拼接 /api/{room}/{parts...}.
func (c *Client) endpoint(room string, parts ...string) (string, error) {
	id, err := types.NewRoomID(room)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString(strings.TrimRight(c.BaseURL, "/"))
	b.WriteString("/api/")
	b.WriteString(url.PathEscape(id.String()))

	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p))
	}

	return b.String(), nil
}

// List 列出房间文件，顺序由服务端决定.
func (c *Client) List(ctx context.Context, room string) ([]types.FileEntry, error) {
	u, err := c.endpoint(room, "files")
	if err != nil {
		return nil, err
	}

	var entries []types.FileEntry
	if err := c.doJSON(ctx, http.MethodGet, u, nil, "", &entries); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []types.FileEntry{}
	}

	return entries, nil
}

// Upload 以 multipart 流式上传 r，size 未知时传 UnknownTotal.
func (c *Client) Upload(ctx context.Context, room, name string, r io.Reader, size int64, progress ProgressFunc) (types.UploadResult, error) {
	var res types.UploadResult

	u, err := c.endpoint(room, "upload")
	if err != nil {
		return res, err
	}

	if err := types.ValidateFileName(name); err != nil {
		return res, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			_ = pw.CloseWithError(err)

			return
		}

		src := r
		if progress != nil {
			src = &progressReader{r: r, total: size, fn: progress}
		}

		if _, err := io.Copy(part, src); err != nil {
			_ = pw.CloseWithError(err)

			return
		}

		_ = pw.CloseWithError(mw.Close())
	}()

	err = c.doJSON(ctx, http.MethodPost, u, pr, mw.FormDataContentType(), &res)
	_ = pr.Close()

	return res, err
}

// Download 把文件内容写入 w，返回写入字节数.
func (c *Client) Download(ctx context.Context, room, name string, w io.Writer) (int64, error) {
	u, err := c.endpoint(room, "download", name)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, readAPIError(resp)
	}

	return io.Copy(w, resp.Body)
}

// Delete 删除单个文件.
func (c *Client) Delete(ctx context.Context, room, name string) (types.DeleteResult, error) {
	var res types.DeleteResult

	u, err := c.endpoint(room, "delete", name)
	if err != nil {
		return res, err
	}

	err = c.doJSON(ctx, http.MethodDelete, u, nil, "", &res)

	return res, err
}

// DeleteAll 清空房间.
func (c *Client) DeleteAll(ctx context.Context, room string) (types.DeleteResult, error) {
	var res types.DeleteResult

	u, err := c.endpoint(room, "delete-all")
	if err != nil {
		return res, err
	}

	err = c.doJSON(ctx, http.MethodDelete, u, nil, "", &res)

	return res, err
}

func (c *Client) doJSON(ctx context.Context, method, u string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}

	return nil
}

// readAPIError 读取 {error: msg} 响应体，解析失败时保留原始文本.
func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body types.ErrorResponse
	if err := sonic.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = string(bytes.TrimSpace(data))
	}

	return &APIError{Status: resp.StatusCode, Message: body.Error}
}

// progressReader 在读取时回调已发送字节数.
type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.sent += int64(n)

	if n > 0 || errors.Is(err, io.EOF) {
		p.fn(p.sent, p.total)
	}

	return n, err
}
