package queue

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/dontfile/pkg/configs"
)

// Emitter 按配置开关发布房间事件，nil Emitter 的所有方法都是空操作.
type Emitter struct {
	pub      message.Publisher
	cfg      configs.EventsConfig
	producer string
	logger   zerolog.Logger
}

// NewEmitter 创建事件发布器，pub 为 nil 时返回 nil.
func NewEmitter(pub message.Publisher, cfg configs.EventsConfig, logger zerolog.Logger) *Emitter {
	if pub == nil || !cfg.Enabled {
		return nil
	}

	return &Emitter{pub: pub, cfg: cfg, producer: DefaultProducer, logger: logger}
}

// FileUploaded 发布 df.file.uploaded.
func (e *Emitter) FileUploaded(ctx context.Context, p FileUploadedPayload) {
	if e == nil || !e.cfg.Room.Uploaded {
		return
	}

	publish(ctx, e, TopicFileUploaded, p)
}

// FileDeleted 发布 df.file.deleted.
func (e *Emitter) FileDeleted(ctx context.Context, p FileDeletedPayload) {
	if e == nil || !e.cfg.Room.Deleted {
		return
	}

	publish(ctx, e, TopicFileDeleted, p)
}

// RoomCleared 发布 df.room.cleared.
func (e *Emitter) RoomCleared(ctx context.Context, p RoomClearedPayload) {
	if e == nil || !e.cfg.Room.Cleared {
		return
	}

	publish(ctx, e, TopicRoomCleared, p)
}

// StorageFull 发布 df.storage.full.
func (e *Emitter) StorageFull(ctx context.Context, p StorageFullPayload) {
	if e == nil || !e.cfg.Room.StorageFull {
		return
	}

	publish(ctx, e, TopicStorageFull, p)
}

func publish[T any](ctx context.Context, e *Emitter, topic string, payload T) {
	opts := []HeaderOption{WithProducer(e.producer)}

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, WithTraceID(sc.TraceID().String()))
	}

	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		e.logger.Error().Err(err).Str("topic", topic).Msg("encode event failed")

		return
	}

	if err := e.pub.Publish(topic, msg); err != nil {
		e.logger.Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

// ParseFileUploaded 将 Watermill 消息解析为强类型 Envelope.
func ParseFileUploaded(msg *message.Message) (Message[FileUploadedPayload], error) {
	return ParseWatermillMessage[FileUploadedPayload](msg)
}
