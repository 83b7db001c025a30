package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInputRead 聊天记录无法打开或读取
var ErrInputRead = errors.New("read transcript")

// 匹配 header 行: "1/2/24, 10:00 AM - Alice: Let's meet"
// 时间后缀和发送者都是非贪婪匹配，发送者到第一个 ": " 为止：
// 正文里的 " - xx: " 不会被当成发送者，但名字里带冒号时会被截断（已知限制）
var headerRe = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2},\s\d{1,2}:\d{2}.*?)-\s(.+?):\s(.*)$`)

// ParseFile 解析导出的聊天记录文件
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open file: %w", ErrInputRead, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse 逐行解析聊天记录，返回按出现顺序排列的消息
// 不匹配 header 的行视为上一条消息的续行；第一条 header 之前的行直接丢弃
func Parse(r io.Reader) ([]Record, error) {
	// 兼容带 BOM 的 UTF-8 / UTF-16 导出文件
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	// 不限制单行长度
	br := bufio.NewReader(dec)

	var acc accumulator
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNum++
			acc.feed(strings.TrimSpace(line), lineNum)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read line: %w", ErrInputRead, err)
		}
	}

	return acc.finish(), nil
}

// accumulator 单次解析的状态：已完成的消息 + 当前未封口的消息
type accumulator struct {
	records []Record
	current *Record
	body    strings.Builder
}

func (a *accumulator) feed(line string, lineNum int) {
	if m := headerRe.FindStringSubmatch(line); m != nil {
		a.seal()
		a.current = &Record{
			TimestampText: strings.TrimSpace(m[1]),
			Sender:        strings.TrimSpace(m[2]),
			Line:          lineNum,
		}
		a.body.WriteString(strings.TrimSpace(m[3]))
		return
	}

	// 续行（包括空行和系统消息）
	if a.current != nil {
		a.body.WriteString(" ")
		a.body.WriteString(line)
	}
}

func (a *accumulator) seal() {
	if a.current == nil {
		return
	}
	a.current.Body = a.body.String()
	a.records = append(a.records, *a.current)
	a.current = nil
	a.body.Reset()
}

func (a *accumulator) finish() []Record {
	a.seal()
	return a.records
}
