package configs

import "github.com/spf13/viper"

const (
	DefaultJobsEnabled   = true
	DefaultJobsUsageCron = "* * * * *" // 每分钟统计一次存储用量
)

// JobsConfig 定时任务配置.
type JobsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	UsageCron string `mapstructure:"usage_cron" rule:"required_if=Enabled true"`
}

func (c *JobsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("jobs.enabled", DefaultJobsEnabled)
	v.SetDefault("jobs.usage_cron", DefaultJobsUsageCron)
}
