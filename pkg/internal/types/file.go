package types

import (
	"errors"
	"time"

	"github.com/yeisme/dontfile/pkg/rule"
)

// ErrInvalidFileName 文件名为空、包含路径成分或过长.
var ErrInvalidFileName = errors.New("invalid file name")

// ValidateFileName 校验上传/下载/删除时使用的文件名，必须是不含路径的纯文件名.
func ValidateFileName(name string) error {
	if err := rule.ValidateVar(name, "file_name"); err != nil {
		return ErrInvalidFileName
	}

	return nil
}

// FileEntry 房间内单个文件的元数据，每次都从存储后端实时读取.
type FileEntry struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"uploadDate"` // 最后修改时间，作为上传时间
}
