package event

import "time"

// DefaultMinConfidence 置信度必须严格大于该值
const DefaultMinConfidence = 0.7

// Verdict 过滤结果
type Verdict struct {
	Accepted bool
	Reason   string // 未通过时的原因
	Start    time.Time
	End      time.Time
}

// Filter 判断一条 Judgment 是否作为候选事件输出
type Filter struct {
	MinConfidence float64
	Location      *time.Location   // 解析不带时区的时间
	Now           func() time.Time // 为空时使用 time.Now
}

// NewFilter 使用给定阈值和时区创建过滤器
func NewFilter(minConfidence float64, loc *time.Location) *Filter {
	return &Filter{MinConfidence: minConfidence, Location: loc}
}

// Accept 报告 j 是否通过全部条件
func (f *Filter) Accept(j *Judgment) bool {
	return f.Evaluate(j).Accepted
}

// Evaluate 依次检查：是事件、置信度、有开始时间且可解析、开始时间在未来
func (f *Filter) Evaluate(j *Judgment) Verdict {
	if j == nil {
		return Verdict{Reason: "no judgment"}
	}
	if !j.IsEvent {
		return Verdict{Reason: "not an event"}
	}
	if !(j.Confidence > f.MinConfidence) {
		return Verdict{Reason: "low confidence"}
	}
	if j.Start == nil {
		return Verdict{Reason: "no start time"}
	}

	start, err := ParseTimestamp(*j.Start, f.Location)
	if err != nil {
		return Verdict{Reason: "unparseable start time"}
	}
	if !start.After(f.now()) {
		return Verdict{Reason: "start time not in the future", Start: start}
	}

	v := Verdict{Accepted: true, Start: start}
	if j.End != nil {
		if end, err := ParseTimestamp(*j.End, f.Location); err == nil {
			v.End = end
		}
	}
	return v
}

func (f *Filter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
