// Package queue 定义房间事件的主题、负载与统一信封，并负责发布与订阅.
//
// 概览
//   - 发布/订阅模型，把上传、删除、清空等动作通知给订阅者（活动日志、外部 NATS 消费者）
//   - 统一的消息封装：Message[Payload] = Header + Payload
//   - 主题常量见 topics.go，负载结构体见 payloads.go
//   - 默认 JSON 编解码（bytedance/sonic）
//
// 消息信封（Envelope）JSON 结构
//
//	{
//	  "header": {
//	    "topic": "df.file.uploaded",
//	    "trace_id": "optional-trace-id",
//	    "producer": "dontfile",
//	    "occurred_at": "2025-01-02T03:04:05.123456Z",
//	    "version": "v1"
//	  },
//	  "payload": { "room": "demo", "file": { "name": "a.txt", "size": 5 } }
//	}
//
// 事件只在操作成功后发布，发布失败只记录日志，不影响请求结果.
package queue

import (
	"errors"
	"fmt"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
)

const (
	PayloadVersionV1 string = "v1"
	// DefaultProducer 默认生产者名.
	DefaultProducer = "dontfile"
)

// 元数据键，NATS 等外部消费者可以不解码负载直接按房间过滤.
const (
	MetaTopic      = "topic"
	MetaRoom       = "room"
	MetaTraceID    = "trace_id"
	MetaProducer   = "producer"
	MetaOccurredAt = "occurred_at"
	MetaVersion    = "version"
)

// ErrUnsupportedVersion 信封版本不是当前代码能解析的版本.
var ErrUnsupportedVersion = errors.New("unsupported event version")

// HeaderOption 修改事件头.
type HeaderOption func(*EventHeader)

// WithTraceID 设置 TraceID.
func WithTraceID(id string) HeaderOption { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 设置 Producer.
func WithProducer(p string) HeaderOption { return func(h *EventHeader) { h.Producer = p } }

// NewEventHeader 创建事件头，producer 默认为 DefaultProducer.
func NewEventHeader(topic string, opts ...HeaderOption) EventHeader {
	hdr := EventHeader{
		Topic:      topic,
		Producer:   DefaultProducer,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}

	for _, opt := range opts {
		opt(&hdr)
	}

	return hdr
}

// Encode 将消息封装为 JSON 字节切片.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode 从 JSON 字节解码为消息，版本为空视为 v1.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	if err := sonic.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("decode event: %w", err)
	}

	if m.Header.Version != "" && m.Header.Version != PayloadVersionV1 {
		return m, fmt.Errorf("%w: %s", ErrUnsupportedVersion, m.Header.Version)
	}

	return m, nil
}

// roomScoped 由带房间字段的负载实现.
type roomScoped interface {
	RoomName() string
}

// NewWatermillMessage 构造 watermill 消息：负载为 JSON 信封，头部字段同时写入元数据.
func NewWatermillMessage[T any](topic string, payload T, opts ...HeaderOption) (*message.Message, error) {
	header := NewEventHeader(topic, opts...)

	data, err := Encode(Message[T]{Header: header, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetaTopic, topic)
	msg.Metadata.Set(MetaProducer, header.Producer)
	msg.Metadata.Set(MetaOccurredAt, header.OccurredAt.Format(time.RFC3339Nano))
	msg.Metadata.Set(MetaVersion, header.Version)

	if header.TraceID != "" {
		msg.Metadata.Set(MetaTraceID, header.TraceID)
	}

	if rs, ok := any(payload).(roomScoped); ok {
		msg.Metadata.Set(MetaRoom, rs.RoomName())
	}

	return msg, nil
}

// ParseWatermillMessage 解出泛型负载.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}
