package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ashwinyue/next-mentor/internal/model"
)

const unknownValue = "unknown"

var (
	// errNoObject 回复中找不到 JSON 对象
	errNoObject = errors.New("no json object in analysis response")
	// errNoFields 对象中没有任何风格字段
	errNoFields = errors.New("analysis response has no style fields")
)

var requiredFields = []string{
	"tone", "common_phrases", "emoji_usage", "message_length",
	"greeting_style", "sign_off_style", "punctuation_style", "encouragement_level",
}

// DefaultStyleProfile 解析失败时使用的默认风格
func DefaultStyleProfile() model.StyleProfile {
	return model.StyleProfile{
		Tone:               "encouraging",
		CommonPhrases:      []string{"Great question", "No worries", "You got this"},
		EmojiUsage:         "occasional",
		MessageLength:      "medium",
		GreetingStyle:      "friendly",
		SignOffStyle:       "encouraging",
		PunctuationStyle:   "mixed",
		EncouragementLevel: "high",
	}
}

// ParseProfile 从模型回复中解析风格档案
// 返回缺失并被填充为 "unknown" 的字段名
func ParseProfile(raw string) (model.StyleProfile, []string, error) {
	var profile model.StyleProfile

	text, err := extractObject(raw)
	if err != nil {
		return profile, nil, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return profile, nil, fmt.Errorf("decode style profile: %w", err)
	}
	if fields == nil {
		return profile, nil, errNoObject
	}

	var missing []string
	str := func(key string, required bool) string {
		v, ok := fields[key]
		if !ok || v == nil {
			if required {
				missing = append(missing, key)
				return unknownValue
			}
			return ""
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return fmt.Sprint(v)
	}

	profile.Tone = str("tone", true)
	profile.CommonPhrases = phrases(fields["common_phrases"])
	if profile.CommonPhrases == nil {
		missing = append(missing, "common_phrases")
		profile.CommonPhrases = []string{unknownValue}
	}
	profile.EmojiUsage = str("emoji_usage", true)
	profile.MessageLength = str("message_length", true)
	profile.GreetingStyle = str("greeting_style", true)
	profile.SignOffStyle = str("sign_off_style", true)
	profile.PunctuationStyle = str("punctuation_style", true)
	profile.EncouragementLevel = str("encouragement_level", true)
	profile.TeachingApproach = str("teaching_approach", false)
	profile.ResponsePattern = str("response_pattern", false)

	if len(missing) == len(requiredFields) {
		return profile, missing, errNoFields
	}
	return profile, missing, nil
}

// extractObject 去掉 markdown 代码块并修复常见的 JSON 瑕疵
func extractObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		return "", errNoObject
	}

	i := strings.IndexByte(s, '{')
	if i < 0 {
		return "", errNoObject
	}
	if j := strings.LastIndexByte(s, '}'); j > i {
		s = s[i : j+1]
	} else {
		s = s[i:]
	}

	if json.Valid([]byte(s)) {
		return s, nil
	}
	out, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return "", fmt.Errorf("repair style json: %w", err)
	}
	return out, nil
}

// phrases 接受字符串数组或单个字符串
func phrases(v interface{}) []string {
	switch t := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}
		}
		return []string{strings.TrimSpace(t)}
	}
	return nil
}
