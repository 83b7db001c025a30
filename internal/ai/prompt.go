package ai

import (
	"fmt"
	"strings"
	"time"
)

const systemPrompt = "You extract structured event data."

// ReferenceDateLayout reference_date 的格式
const ReferenceDateLayout = "2006-01-02"

// BuildEventPrompt 组装单条消息的抽取 prompt
// reference 的日期作为“今天”，时区作为所有时间的统一时区
func BuildEventPrompt(body string, reference time.Time) string {
	var b strings.Builder

	b.WriteString("You are an event extraction assistant.\n\n")
	b.WriteString("From the chat message below, extract event information.\n\n")

	// 输出格式
	b.WriteString("Return ONLY valid JSON with this schema:\n\n")
	b.WriteString("{\n")
	b.WriteString("  \"is_event\": boolean,\n")
	b.WriteString("  \"title\": string or null,\n")
	b.WriteString("  \"start_datetime\": ISO 8601 string or null,\n")
	b.WriteString("  \"end_datetime\": ISO 8601 string or null,\n")
	b.WriteString("  \"confidence\": number between 0 and 1\n")
	b.WriteString("}\n\n")

	// 规则
	b.WriteString("Rules:\n")
	b.WriteString("- If no event exists, return is_event=false\n")
	b.WriteString("- If date not found, start_datetime=null\n")
	fmt.Fprintf(&b, "- Assume timezone %s and include its UTC offset in every datetime\n", reference.Location())
	b.WriteString("- Convert relative dates to full ISO format\n")
	fmt.Fprintf(&b, "- Today is %s\n\n", reference.Format(ReferenceDateLayout))

	b.WriteString("Message:\n")
	fmt.Fprintf(&b, "\"\"\"%s\"\"\"\n", body)

	return b.String()
}
