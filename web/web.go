// Package web 内嵌浏览器端页面：首页（输入房间名）与房间页（列表、上传、下载、删除）.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

const (
	// HomePage 首页文件名.
	HomePage = "index.html"
	// RoomPage 房间页文件名.
	RoomPage = "room.html"
)

// FS 返回以 static 为根的文件系统.
func FS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return sub
}

// Assets 返回 /assets 下的静态资源.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static/assets")
	if err != nil {
		panic(err)
	}

	return sub
}

// Page 读取页面内容.
func Page(name string) ([]byte, error) {
	return fs.ReadFile(FS(), name)
}
