package queue

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// Subscriber 订阅接口，与 mq.Client 一致.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// rawEnvelope 负载按通用结构解析，只用于写日志.
type rawEnvelope struct {
	Header  EventHeader `json:"header"`
	Payload any         `json:"payload"`
}

// RunLogSink 订阅全部房间事件并写入活动日志，直到 ctx 结束.
func RunLogSink(ctx context.Context, sub Subscriber, logger zerolog.Logger) error {
	var wg sync.WaitGroup

	for _, topic := range RoomTopics {
		ch, err := sub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			for msg := range ch {
				logEvent(logger, msg)
				msg.Ack()
			}
		}()
	}

	wg.Wait()

	return nil
}

func logEvent(logger zerolog.Logger, msg *message.Message) {
	var env rawEnvelope
	if err := sonic.Unmarshal(msg.Payload, &env); err != nil {
		logger.Warn().Err(err).Str("msg_id", msg.UUID).Msg("malformed room event")

		return
	}

	ev := logger.Info().
		Str("topic", env.Header.Topic).
		Time("occurred_at", env.Header.OccurredAt).
		Interface("payload", env.Payload)

	if env.Header.TraceID != "" {
		ev = ev.Str("trace_id", env.Header.TraceID)
	}

	ev.Msg("room event")
}
