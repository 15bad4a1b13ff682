package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Section header lines of the report contract. Field lines beneath a header
// are indented by one space; a blank line separates sections. External
// tooling matches on these exact strings, so they must not change.
const (
	HeaderOS      = "Operating system:"
	HeaderReason  = "Crash reason:"
	HeaderStack   = "Stacktrace:"
	HeaderVersion = "Faultline version:"
	HeaderHost    = "Host:"
	HeaderHW      = "Hardware:"
	HeaderRes     = "Resources:"
	HeaderEnv     = "Environment:"
)

// Summary holds the fields tooling extracts from a report by header-line
// matching. Fields missing from a degraded report are left at their zero
// values; only a read failure is an error.
type Summary struct {
	OSName   string
	Reason   string
	Signal   int
	Message  string
	Frames   int
	Sections []string
}

// ParseSummary reads a report and extracts its Summary.
func ParseSummary(r io.Reader) (*Summary, error) {
	s := &Summary{}
	section := ""
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if isHeader(line) {
			section = line
			s.Sections = append(s.Sections, line)
			continue
		}
		if !strings.HasPrefix(line, " ") {
			continue
		}
		switch section {
		case HeaderOS:
			if v, ok := fieldValue(line, "Name:"); ok {
				s.OSName = v
			}
		case HeaderReason:
			if v, ok := fieldValue(line, "Signal:"); ok {
				s.Reason, s.Signal = splitSignal(v)
			}
			if v, ok := fieldValue(line, "Message:"); ok {
				s.Message = v
			}
		case HeaderStack:
			if strings.HasPrefix(line, " [") {
				s.Frames++
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func isHeader(line string) bool {
	return line != "" && !strings.HasPrefix(line, " ") && strings.HasSuffix(line, ":")
}

func fieldValue(line, label string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	rest := strings.TrimPrefix(trimmed, label)
	if rest == trimmed {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// splitSignal takes "Segmentation fault (11)" apart into description and
// number. Unparseable input is returned whole with signal 0.
func splitSignal(v string) (string, int) {
	open := strings.LastIndex(v, "(")
	if open < 0 || !strings.HasSuffix(v, ")") {
		return v, 0
	}
	n, err := strconv.Atoi(v[open+1 : len(v)-1])
	if err != nil {
		return v, 0
	}
	return strings.TrimSpace(v[:open]), n
}
