package generation

import "encoding/json"

// 生成失败时返回给调用方的固定文本
const (
	ReplyFallback   = "Sorry, I encountered an error while generating a reply. Please try again."
	NudgeFallback   = "Sorry, I encountered an error while generating a nudge. Please try again."
	SummaryFallback = "Student is learning programming concepts."
	NoHistory       = "New conversation - no prior context."
)

// Result 一次生成的结果
// 失败时 Text 为固定的兜底文本，Err 包装 generator.ErrGeneration
type Result struct {
	Text string
	Err  error
}

// OK 是否生成成功
func (r Result) OK() bool {
	return r.Err == nil
}

// MarshalJSON 输出 text、ok 与错误描述
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Text  string `json:"text"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}{Text: r.Text, OK: r.OK()}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}
