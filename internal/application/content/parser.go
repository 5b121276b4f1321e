package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type section int

const (
	sectionNone section = iota
	sectionHook
	sectionStoryline
	sectionScript
	sectionHashtags
)

// sectionLabels 检测顺序即优先级，按子串匹配
var sectionLabels = []struct {
	label   string
	section section
}{
	{"hook:", sectionHook},
	{"storyline:", sectionStoryline},
	{"script:", sectionScript},
	{"hashtags:", sectionHashtags},
}

// ParseResponse 将模型原始输出转换为内容记录（不含时间轴）。
// 以 "{" 开头按 JSON 严格解析，否则按 "LABEL: text" 行扫描。
func ParseResponse(raw string) (rec *Record, err error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		return parseJSON(trimmed)
	}

	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = newParseError("failed to parse generated content", fmt.Errorf("panic: %v", r))
		}
	}()
	return parseLabeled(raw), nil
}

type jsonContent struct {
	Hook      string          `json:"hook"`
	Storyline string          `json:"storyline"`
	Script    string          `json:"script"`
	Hashtags  json.RawMessage `json:"hashtags"`
}

func parseJSON(text string) (*Record, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	var body jsonContent
	if err := dec.Decode(&body); err != nil {
		return nil, newParseError("model returned malformed JSON", err)
	}
	if dec.More() {
		return nil, newParseError("model returned trailing data after JSON object", nil)
	}

	tags, err := decodeHashtags(body.Hashtags)
	if err != nil {
		return nil, newParseError("model returned malformed hashtags", err)
	}

	rec := newRecord()
	rec.Hook = strings.TrimSpace(body.Hook)
	rec.Storyline = strings.TrimSpace(body.Storyline)
	rec.Script = strings.TrimSpace(body.Script)
	rec.Hashtags = normalizeHashtags(tags)
	return rec, nil
}

// decodeHashtags 接受字符串数组或以空白/逗号分隔的字符串
func decodeHashtags(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}), nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// parseLabeled 逐行扫描，标签行开启新段落，后续非空行以空格拼接到当前段落。
// 标签前的文本丢弃；hashtags 段只提取以 # 开头的词。
func parseLabeled(raw string) *Record {
	rec := newRecord()
	var (
		current section
		texts   = map[section]*strings.Builder{
			sectionHook:      {},
			sectionStoryline: {},
			sectionScript:    {},
		}
		tags []string
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if sec, ok := detectSection(line); ok {
			current = sec
			value := valueAfterColon(line)
			if sec == sectionHashtags {
				tags = extractHashtags(value)
				continue
			}
			b := texts[sec]
			b.Reset()
			b.WriteString(value)
			continue
		}

		switch current {
		case sectionNone:
		case sectionHashtags:
			if strings.HasPrefix(line, "#") {
				tags = append(tags, extractHashtags(line)...)
			}
		default:
			b := texts[current]
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(line)
		}
	}

	rec.Hook = strings.TrimSpace(texts[sectionHook].String())
	rec.Storyline = strings.TrimSpace(texts[sectionStoryline].String())
	rec.Script = strings.TrimSpace(texts[sectionScript].String())
	rec.Hashtags = normalizeHashtags(tags)
	return rec
}

func detectSection(line string) (section, bool) {
	lower := strings.ToLower(line)
	for _, l := range sectionLabels {
		if strings.Contains(lower, l.label) {
			return l.section, true
		}
	}
	return sectionNone, false
}

// valueAfterColon 取第一个冒号之后的文本，去掉 markdown 强调符
func valueAfterColon(line string) string {
	_, after, _ := strings.Cut(line, ":")
	return strings.Trim(strings.TrimSpace(after), "*_ ")
}

func extractHashtags(text string) []string {
	var tags []string
	for _, tok := range strings.Fields(text) {
		if strings.HasPrefix(tok, "#") {
			tags = append(tags, tok)
		}
	}
	return tags
}

// normalizeHashtags 去掉 #、首尾标点并转小写，去重保序
func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		t = strings.Trim(t, "#")
		t = strings.TrimRight(t, ",;.!?")
		t = strings.TrimSpace(strings.Trim(t, "#"))
		t = strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
