package types

// UploadResult 上传成功响应.
type UploadResult struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// DeleteResult 删除成功响应，清空房间时附带删除数量.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted *int   `json:"deleted,omitempty"`
}

// ErrorResponse 统一错误响应.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UsageStats 存储用量统计.
type UsageStats struct {
	Rooms int   `json:"rooms"`
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}
