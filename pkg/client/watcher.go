package client

import (
	"context"
	"sort"
	"time"

	"github.com/yeisme/dontfile/pkg/internal/types"
)

// DefaultPollInterval 房间列表轮询间隔.
const DefaultPollInterval = 5 * time.Second

// State 房间视图状态.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Snapshot 一次轮询后的房间视图，Files 按上传时间倒序.
type Snapshot struct {
	State   State
	Files   []types.FileEntry
	Err     error
	Updated time.Time
}

// Watcher 按固定间隔轮询房间列表.
// 首次成功进入 ready，首次失败进入 error；之后的失败被忽略并保留上一次的列表.
type Watcher struct {
	client   *Client
	room     string
	interval time.Duration

	snap Snapshot
}

// NewWatcher 创建轮询器，interval <= 0 时使用 DefaultPollInterval.
func NewWatcher(c *Client, room string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Watcher{
		client:   c,
		room:     room,
		interval: interval,
		snap:     Snapshot{State: StateLoading},
	}
}

// Snapshot 返回最近一次视图.
func (w *Watcher) Snapshot() Snapshot {
	return w.snap
}

// Refresh 立即拉取一次列表并按状态机更新视图.
func (w *Watcher) Refresh(ctx context.Context) Snapshot {
	files, err := w.client.List(ctx, w.room)

	switch {
	case err == nil:
		SortByRecent(files)
		w.snap = Snapshot{State: StateReady, Files: files, Updated: time.Now()}
	case w.snap.State == StateLoading:
		w.snap = Snapshot{State: StateError, Err: err, Updated: time.Now()}
	}

	return w.snap
}

// Run 立即拉取一次，之后每个间隔拉取一次，每次都回调 fn，直到 ctx 结束.
func (w *Watcher) Run(ctx context.Context, fn func(Snapshot)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	fn(w.Refresh(ctx))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fn(w.Refresh(ctx))
		}
	}
}

// SortByRecent 按上传时间倒序排列，时间相同按名称升序.
func SortByRecent(files []types.FileEntry) {
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].UploadDate.Equal(files[j].UploadDate) {
			return files[i].UploadDate.After(files[j].UploadDate)
		}

		return files[i].Name < files[j].Name
	})
}
