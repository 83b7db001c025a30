package parser

import "strings"

// 导出时替换掉的非文本内容
var placeholders = []string{
	"<media omitted>",
	"image omitted",
	"video omitted",
	"audio omitted",
	"sticker omitted",
	"gif omitted",
	"document omitted",
	"contact card omitted",
	"this message was deleted",
	"you deleted this message",
	"null",
}

// IsPlaceholder 判断消息是否只是一个导出占位符（图片、语音、已删除等）
func IsPlaceholder(body string) bool {
	b := strings.ToLower(strings.TrimSpace(body))
	if b == "" {
		return true
	}
	for _, p := range placeholders {
		if b == p {
			return true
		}
	}
	return false
}
