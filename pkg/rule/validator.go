// Package rule 提供结构体和字段验证功能的封装，基于 go-playground/validator 实现.
// 除通用规则外，还注册了房间名（room_id）与文件名（file_name）两条领域规则.
package rule

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	// TagName 结构体标签名.
	TagName = "rule"

	// MaxRoomIDLength 房间名最大长度.
	MaxRoomIDLength = 64
	// MaxFileNameLength 文件名最大长度（字节）.
	MaxFileNameLength = 255
)

var (
	inst *validator.Validate
	once sync.Once

	roomIDPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// initValidator 新建独立的 validator 并注册领域规则，不修改 gin 的 binding 引擎.
func initValidator() {
	inst = validator.New(validator.WithRequiredStructEnabled())
	inst.SetTagName(TagName)

	_ = inst.RegisterValidation("room_chars", validateRoomChars)
	_ = inst.RegisterValidation("base_name", validateBaseName)

	inst.RegisterAlias("room_id", "required,max=64,room_chars")
	inst.RegisterAlias("file_name", "required,max=255,base_name")
}

// validateRoomChars 只允许小写字母、数字、下划线与单个连字符.
func validateRoomChars(fl validator.FieldLevel) bool {
	s := fl.Field().String()

	return roomIDPattern.MatchString(s) && !strings.Contains(s, "--")
}

// validateBaseName 文件名必须是纯文件名：不含路径分隔符、不是 . 或 ..、不含 NUL.
func validateBaseName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || s == "." || s == ".." {
		return false
	}

	if strings.ContainsAny(s, "/\\\x00") {
		return false
	}

	return filepath.Base(s) == s
}

// lazyInit 初始化全局 validator（幂等）.
func lazyInit() {
	once.Do(initValidator)
}

// Engine 返回全局 *validator.Validate，若未初始化则先初始化.
func Engine() *validator.Validate {
	lazyInit()

	return inst
}

// RegisterValidation 代理 RegisterValidation，确保已初始化.
func RegisterValidation(tag string, fn validator.Func, opts ...bool) error {
	lazyInit()

	return inst.RegisterValidation(tag, fn, opts...)
}

// ValidateStruct 对结构体执行完整校验，返回原始 error.
func ValidateStruct(s any) error {
	lazyInit()

	return inst.Struct(s)
}

// ValidateVar 按规则对单个变量校验，例如: ValidateVar("demo", "room_id").
func ValidateVar(field any, tag string) error {
	lazyInit()

	return inst.Var(field, tag)
}

// RegisterAlias 包装 RegisterAlias，便于注册别名规则.
func RegisterAlias(alias, rules string) {
	lazyInit()

	inst.RegisterAlias(alias, rules)
}
