// Package main 启动应用程序
package main

import (
	"os"

	"github.com/yeisme/dontfile/pkg/cmd"
)

//	@title			DontFile API
//	@version		0.1.0
//	@description	DontFile 是一个基于房间的临时文件投递服务，知道房间名即可上传、下载与删除文件。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
