package types

import (
	"errors"
	"regexp"
	"strings"

	"github.com/yeisme/dontfile/pkg/rule"
)

// ErrInvalidRoom 房间名清洗后为空或不合法.
var ErrInvalidRoom = errors.New("invalid room name")

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonRoomChars  = regexp.MustCompile(`[^a-z0-9_-]+`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// RoomID 是经过清洗的房间名，只包含小写字母、数字、下划线与单个连字符.
// 零值不是合法房间，只能通过 NewRoomID 或 ParseRoomID 构造，因此可以安全地拼接到文件系统路径或对象键上.
type RoomID struct {
	name string
}

// SanitizeRoomName 按首页输入框的规则清洗房间名：
// 去除首尾空白、转小写、空白串替换为 "-"、删除其它字符、合并连续的 "-".
func SanitizeRoomName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonRoomChars.ReplaceAllString(s, "")

	return hyphenRun.ReplaceAllString(s, "-")
}

// NewRoomID 清洗任意输入并返回房间 ID，清洗结果为空或过长时返回 ErrInvalidRoom.
func NewRoomID(raw string) (RoomID, error) {
	return ParseRoomID(SanitizeRoomName(raw))
}

// ParseRoomID 只接受已经是规范形式的房间名，不做清洗.
func ParseRoomID(name string) (RoomID, error) {
	if err := rule.ValidateVar(name, "room_id"); err != nil {
		return RoomID{}, ErrInvalidRoom
	}

	return RoomID{name: name}, nil
}

// MustRoomID 用于常量与测试.
func MustRoomID(raw string) RoomID {
	id, err := NewRoomID(raw)
	if err != nil {
		panic(err)
	}

	return id
}

// String 返回规范房间名.
func (r RoomID) String() string { return r.name }

// IsZero 报告是否为零值.
func (r RoomID) IsZero() bool { return r.name == "" }
