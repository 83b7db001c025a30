package report

import (
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/liao/chatcal/internal/event"
)

const productID = "-//chatcal//event extractor//EN"

// UID 命名空间，固定值，保证同一输入重复运行得到相同的 UID
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/liao/chatcal"))

// ICS 收集所有事件，Close 时一次性写出 VCALENDAR
type ICS struct {
	w   io.Writer
	cal *ics.Calendar
	now func() time.Time
}

func NewICS(w io.Writer) *ICS {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	return &ICS{w: w, cal: cal, now: time.Now}
}

func (i *ICS) Report(c event.Candidate) error {
	ev := i.cal.AddEvent(EventUID(c))
	ev.SetDtStampTime(i.now())
	ev.SetStartAt(c.StartAt)
	if !c.EndAt.IsZero() {
		ev.SetEndAt(c.EndAt)
	}
	ev.SetSummary(c.Judgment.TitleOr(c.Record.Body))
	ev.SetDescription(c.Record.Sender + ": " + c.Record.Body)
	return nil
}

func (i *ICS) Close() error {
	return i.cal.SerializeTo(i.w)
}

// EventUID 由发送者、消息时间和开始时间生成的确定性 UID
func EventUID(c event.Candidate) string {
	name := c.Record.Sender + "|" + c.Record.TimestampText + "|" + c.StartAt.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@chatcal"
}
