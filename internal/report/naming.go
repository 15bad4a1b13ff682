package report

import (
	"strings"
	"time"
)

const (
	filePrefix = "crash-"
	fileSuffix = ".log"
	timeLayout = "2006-01-02T15-04-05"
)

// FileName returns the report file name for a capture at time t, for example
// "crash-2026-08-23T14-02-11.log".
func FileName(t time.Time) string {
	return filePrefix + t.Format(timeLayout) + fileSuffix
}

// IsReportFile reports whether name follows the report file naming scheme.
func IsReportFile(name string) bool {
	_, ok := TimeFromFileName(name)
	return ok
}

// TimeFromFileName extracts the capture time encoded in a report file name.
// The second return is false for names that do not follow the scheme.
func TimeFromFileName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	t, err := time.ParseInLocation(timeLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
