package queue

// 主题命名规范：df.<域>.<动作>，保持稳定且向后兼容.
const (
	TopicFileUploaded = "df.file.uploaded" // 文件写入房间（新建或覆盖）
	TopicFileDeleted  = "df.file.deleted"  // 单个文件被删除
	TopicRoomCleared  = "df.room.cleared"  // 房间被清空
	TopicStorageFull  = "df.storage.full"  // 上传因存储空间不足失败
)

// RoomTopics 所有房间事件主题.
var RoomTopics = []string{
	TopicFileUploaded,
	TopicFileDeleted,
	TopicRoomCleared,
	TopicStorageFull,
}
