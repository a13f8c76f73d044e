// Package persona 内置的导师人设：风格样例、演示对话与考试事件
package persona

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ashwinyue/next-mentor/internal/model"
)

// ErrUnknownPersona 未知的人设名称
var ErrUnknownPersona = errors.New("unknown persona")

// 人设名称
const (
	Encouraging = "Encouraging Mentor"
	Direct      = "Direct Mentor"
	Academic    = "Academic Mentor"
	Casual      = "Casual Mentor"
)

// DemoMessage 演示对话中的一条消息
type DemoMessage struct {
	Sender  model.SenderType
	Content string
}

// Persona 导师人设
type Persona struct {
	Name    string
	Samples []string
	Demo    []DemoMessage
}

// Lookup 按名称查找人设
func Lookup(name string) (Persona, error) {
	p, ok := personas[name]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, name)
	}
	return p, nil
}

// Names 返回所有人设名称（已排序）
func Names() []string {
	names := make([]string, 0, len(personas))
	for name := range personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExamEvent 构造学生参加考试的触发事件描述
func ExamEvent(examType, studentID string, date time.Time) string {
	return fmt.Sprintf("Event: 'student took exam', Exam: '%s', Date: '%s', Student: '%s', Score: 'Pending'",
		examType, date.Format("2006-01-02"), studentID)
}

func student(content string) DemoMessage {
	return DemoMessage{Sender: model.SenderStudent, Content: content}
}

func mentor(content string) DemoMessage {
	return DemoMessage{Sender: model.SenderMentor, Content: content}
}
