package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于转储后定位来源.
	Topic string `json:"topic"`
	// TraceID 请求追踪 ID，来自 tracing 或请求 ID 中间件.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// FileRef 房间内文件的简要信息.
type FileRef struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size,omitempty"`
	UploadDate time.Time `json:"upload_date"`
}

// FileUploadedPayload 文件上传成功.
type FileUploadedPayload struct {
	Room string  `json:"room"`
	File FileRef `json:"file"`
}

// FileDeletedPayload 单个文件被删除.
type FileDeletedPayload struct {
	Room     string `json:"room"`
	FileName string `json:"file_name"`
}

// RoomClearedPayload 房间被清空.
type RoomClearedPayload struct {
	Room    string `json:"room"`
	Deleted int    `json:"deleted"`
}

// StorageFullPayload 上传因空间不足失败.
type StorageFullPayload struct {
	Room     string `json:"room"`
	FileName string `json:"file_name"`
	Backend  string `json:"backend"`
	Error    string `json:"error,omitempty"`
}

// RoomName 实现 roomScoped，用于写入消息元数据.
func (p FileUploadedPayload) RoomName() string { return p.Room }

func (p FileDeletedPayload) RoomName() string { return p.Room }

func (p RoomClearedPayload) RoomName() string { return p.Room }

func (p StorageFullPayload) RoomName() string { return p.Room }
