package configs

import (
	"time"

	"github.com/spf13/viper"
)

// MQType 事件传输类型.
type MQType string

const (
	MQTypeGoChannel MQType = "gochannel" // 进程内传输，默认
	MQTypeNATS      MQType = "nats"

	DefaultMQURL               = "nats://localhost:4222"
	DefaultMaxReconnects       = 5               // 默认最大重连次数.
	DefaultReconnectWait       = 5               // 默认重连等待时间（秒）.
	DefaultMQClientID          = "dontfile-app"  // 默认客户端ID
	DefaultChannelBuffer       = 64              // gochannel 输出缓冲
	DefaultMQQueueGroupPrefix  = "dontfile"      // NATS 队列组前缀
	DefaultMQSubscribersCount  = 1               // NATS 订阅者数量
	DefaultMQCloseTimeoutInSec = 30              // 关闭超时（秒）
	DefaultJetStreamDurable    = "dontfile-sink" // JetStream 持久化前缀
)

// MQConfig 事件传输配置.
type MQConfig struct {
	Type      MQType          `mapstructure:"type"      rule:"oneof=gochannel nats"`
	GoChannel MQChannelConfig `mapstructure:"gochannel"`
	NATS      MQNATSConfig    `mapstructure:"nats"`
}

// MQChannelConfig 进程内 gochannel 配置.
type MQChannelConfig struct {
	OutputBuffer int64 `mapstructure:"output_buffer" rule:"gte=0"`
	Persistent   bool  `mapstructure:"persistent"`
}

// MQNATSConfig NATS 配置.
type MQNATSConfig struct {
	URL                    string   `mapstructure:"url"`
	ClusterURLs            []string `mapstructure:"cluster_urls"`
	ClientID               string   `mapstructure:"client_id"`
	User                   string   `mapstructure:"user"`
	Password               string   `mapstructure:"password"`
	MaxReconnects          int      `mapstructure:"max_reconnects"           rule:"min=0,max=100"`
	ReconnectWait          int      `mapstructure:"reconnect_wait"           rule:"min=1,max=300"`
	QueueGroupPrefix       string   `mapstructure:"queue_group_prefix"`
	SubscribersCount       int      `mapstructure:"subscribers_count"        rule:"min=1,max=64"`
	CloseTimeout           int      `mapstructure:"close_timeout"            rule:"min=1,max=300"`
	JetStreamEnabled       bool     `mapstructure:"jetstream_enabled"`
	JetStreamAutoProvision bool     `mapstructure:"jetstream_auto_provision"`
	JetStreamTrackMsgID    bool     `mapstructure:"jetstream_track_msg_id"`
	JetStreamDurablePrefix string   `mapstructure:"jetstream_durable_prefix"`
}

// GetMQType 返回当前配置的事件传输类型.
func (c *MQConfig) GetMQType() MQType {
	return c.Type
}

// ReconnectWaitDuration 返回重连等待时间.
func (c *MQNATSConfig) ReconnectWaitDuration() time.Duration {
	return time.Duration(c.ReconnectWait) * time.Second
}

// CloseTimeoutDuration 返回关闭超时.
func (c *MQNATSConfig) CloseTimeoutDuration() time.Duration {
	return time.Duration(c.CloseTimeout) * time.Second
}

// setDefaults 设置MQ配置的默认值.
func (c *MQConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("mq.type", MQTypeGoChannel)

	v.SetDefault("mq.gochannel.output_buffer", DefaultChannelBuffer)
	v.SetDefault("mq.gochannel.persistent", false)

	v.SetDefault("mq.nats.url", DefaultMQURL)
	v.SetDefault("mq.nats.cluster_urls", []string{})
	v.SetDefault("mq.nats.client_id", DefaultMQClientID)
	v.SetDefault("mq.nats.user", "")
	v.SetDefault("mq.nats.password", "")
	v.SetDefault("mq.nats.max_reconnects", DefaultMaxReconnects)
	v.SetDefault("mq.nats.reconnect_wait", DefaultReconnectWait)
	v.SetDefault("mq.nats.queue_group_prefix", DefaultMQQueueGroupPrefix)
	v.SetDefault("mq.nats.subscribers_count", DefaultMQSubscribersCount)
	v.SetDefault("mq.nats.close_timeout", DefaultMQCloseTimeoutInSec)
	v.SetDefault("mq.nats.jetstream_enabled", false)
	v.SetDefault("mq.nats.jetstream_auto_provision", true)
	v.SetDefault("mq.nats.jetstream_track_msg_id", true)
	v.SetDefault("mq.nats.jetstream_durable_prefix", DefaultJetStreamDurable)
}
