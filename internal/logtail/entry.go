package logtail

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Level is the severity of an entry, ordered from least to most severe.
type Level int

const (
	LevelUnknown Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	default:
		return "???"
	}
}

// Entry is one parsed log line.
type Entry struct {
	Time    string
	Level   Level
	Message string
	Attrs   string
	Raw     string
}

var (
	textLine  = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) (DBG|INF|WRN|ERR)(?:[+-]\d+)? ?(.*)$`)
	attrStart = regexp.MustCompile(`\s[A-Za-z_][\w.]*=`)
)

// Parse reads a text line as written by tint or a JSON line as written by
// slog's JSON handler. Lines in neither shape keep only Raw and Message.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		if entry, ok := parseJSON(trimmed); ok {
			entry.Raw = line
			return entry
		}
	}

	m := textLine.FindStringSubmatch(line)
	if m == nil {
		return Entry{Message: line, Raw: line}
	}
	entry := Entry{Time: m[1], Level: parseLevel(m[2]), Raw: line}
	rest := m[3]
	if loc := attrStart.FindStringIndex(rest); loc != nil {
		entry.Message = rest[:loc[0]]
		entry.Attrs = strings.TrimSpace(rest[loc[0]:])
	} else if strings.Contains(rest, "=") && !strings.Contains(rest, " ") {
		entry.Attrs = rest
	} else {
		entry.Message = rest
	}
	return entry
}

func parseJSON(line string) (Entry, bool) {
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		return Entry{}, false
	}
	entry := Entry{
		Time:    stringField(record, "time"),
		Level:   parseLevel(stringField(record, "level")),
		Message: stringField(record, "msg"),
	}
	if len(entry.Time) >= 19 {
		entry.Time = strings.Replace(entry.Time[:19], "T", " ", 1)
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		switch key {
		case "time", "level", "msg":
		default:
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	attrs := make([]string, 0, len(keys))
	for _, key := range keys {
		attrs = append(attrs, fmt.Sprintf("%s=%v", key, record[key]))
	}
	entry.Attrs = strings.Join(attrs, " ")
	return entry, true
}

func stringField(record map[string]any, key string) string {
	value, _ := record[key].(string)
	return value
}

func parseLevel(value string) Level {
	switch strings.ToUpper(value) {
	case "DBG", "DEBUG":
		return LevelDebug
	case "INF", "INFO":
		return LevelInfo
	case "WRN", "WARN":
		return LevelWarn
	case "ERR", "ERROR":
		return LevelError
	default:
		return LevelUnknown
	}
}

// Filter keeps entries at or above min. Unparsed lines are always kept.
func Filter(entries []Entry, min Level) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Level == LevelUnknown || entry.Level >= min {
			out = append(out, entry)
		}
	}
	return out
}
