package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// StorageType 房间存储后端类型.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"

	DefaultStorageType    = StorageTypeLocal     // 默认使用本地文件系统
	DefaultStorageRoot    = "uploads"            // 默认上传根目录，每个房间一个子目录
	DefaultMaxUploadMB    = 100                  // 单文件大小上限（MB）
	DefaultSupportContact = "dontfile@gmail.com" // 存储已满时提示的运维联系方式
	DefaultDirPerm        = 0o755                // 房间目录权限
	DefaultFilePerm       = 0o644                // 上传文件权限

	bytesPerMB = 1024 * 1024
)

// StorageConfig 房间文件存储配置.
type StorageConfig struct {
	Type           StorageType `mapstructure:"type"            rule:"oneof=local s3"`
	Root           string      `mapstructure:"root"            rule:"required_if=Type local"`
	MaxUploadMB    int64       `mapstructure:"max_upload_mb"   rule:"min=1"`
	SupportContact string      `mapstructure:"support_contact"`
	S3             S3Config    `mapstructure:"s3"`
}

// S3Config MinIO S3存储配置，房间映射为对象键前缀.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
	Prefix          string `mapstructure:"prefix"` // 可选：所有房间共享的键前缀
}

const (
	DefaultS3Endpoint        = "localhost:9000" // 默认S3端点
	DefaultS3AccessKeyID     = "minioadmin"     // 默认访问密钥ID
	DefaultS3SecretAccessKey = "minioadmin"     // 默认秘密访问密钥
	DefaultS3UseSSL          = false            // 默认是否使用SSL
	DefaultS3BucketName      = "dontfile"       // 默认存储桶名称
	DefaultS3Region          = "us-east-1"      // 默认区域
)

// MaxUploadBytes 返回单文件大小上限（字节）.
func (c *StorageConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB * bytesPerMB
}

// GetEndpointURL 获取完整的端点URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置存储配置的默认值.
func (c *StorageConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("storage.type", DefaultStorageType)
	v.SetDefault("storage.root", DefaultStorageRoot)
	v.SetDefault("storage.max_upload_mb", DefaultMaxUploadMB)
	v.SetDefault("storage.support_contact", DefaultSupportContact)

	v.SetDefault("storage.s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("storage.s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("storage.s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("storage.s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("storage.s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("storage.s3.region", DefaultS3Region)
	v.SetDefault("storage.s3.prefix", "")
}
