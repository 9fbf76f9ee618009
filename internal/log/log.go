package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// InitLogger sends log lines to stderr, and additionally appends them to logFileName when it is set.
// The returned closer releases the log file and is a no-op without one.
func InitLogger(verbose bool, logFileName string) (io.Closer, error) {
	var closer io.Closer = nopCloser{}
	var out io.Writer = os.Stderr

	if logFileName != "" {
		file, err := os.OpenFile(GetLogFilePath(logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return closer, err
		}
		out = io.MultiWriter(os.Stderr, file)
		closer = file
	}
	Log.SetOutput(out)

	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
		Log.Debugln("Verbose (debug) logging enabled")
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
	return closer, nil
}

func GetLogFilePath(logFileName string) string {
	if logFileName == "" {
		return ""
	}
	path, err := filepath.Abs(logFileName)
	if err != nil {
		return logFileName
	}
	return path
}

// SetRunID tags every following log entry with a run field, so the lines of one run can be grepped out of a shared log file.
func SetRunID(runID string) {
	Log.ReplaceHooks(make(logrus.LevelHooks))
	Log.AddHook(fieldHook{fields: logrus.Fields{"run": runID}})
}

type fieldHook struct {
	fields logrus.Fields
}

func (h fieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h fieldHook) Fire(entry *logrus.Entry) error {
	for key, value := range h.fields {
		entry.Data[key] = value
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
