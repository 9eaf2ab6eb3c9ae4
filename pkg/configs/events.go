package configs

import "github.com/spf13/viper"

// EventsConfig 控制房间事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool             `mapstructure:"enabled"`  // 总开关
	Room    RoomEventsConfig `mapstructure:"room"`     // 房间领域的事件
	LogSink bool             `mapstructure:"log_sink"` // 是否订阅事件并写入活动日志
}

// RoomEventsConfig 针对房间文件的事件开关。
type RoomEventsConfig struct {
	Uploaded    bool `mapstructure:"uploaded"`
	Deleted     bool `mapstructure:"deleted"`
	Cleared     bool `mapstructure:"cleared"`
	StorageFull bool `mapstructure:"storage_full"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)
	v.SetDefault("events.log_sink", true)

	v.SetDefault("events.room.uploaded", true)
	v.SetDefault("events.room.deleted", true)
	v.SetDefault("events.room.cleared", true)
	// 存储已满属于告警事件，默认开启，量很小
	v.SetDefault("events.room.storage_full", true)
}
