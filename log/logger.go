package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/logrusorgru/aurora"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"
)

const (
	defaultTimestampFormat = time.RFC3339
	namespaceKey           = "namespace"
)

var logger = logrus.New()

// Logger provides configuration for the loader's logger.
type Logger struct {
	Level      string
	Formatter  string
	OutputFile string
	JSONFormat JSONFormatConfig
	TextFormat TextFormatConfig
}

// JSONFormatConfig provides configuration for the JSON logger format.
type JSONFormatConfig struct {
	DisableTimestamp bool
	TimestampFormat  string
}

// TextFormatConfig provides configuration for the text logger format.
type TextFormatConfig struct {
	// ForceColors colors output even when it is not a terminal
	ForceColors      bool
	DisableColors    bool
	DisableTimestamp bool
	TimestampFormat  string
}

// DefaultLoggerConfig returns a Logger instance with default values.
func DefaultLoggerConfig() Logger {
	return Logger{
		Level:     "info",
		Formatter: "text",
		TextFormat: TextFormatConfig{
			TimestampFormat: defaultTimestampFormat,
		},
	}
}

// textFormatter writes one line per entry:
//
//	2013-01-01T00:00:00Z INFO [batch] 1000 documents index=abstracts total=3000
type textFormatter struct {
	TextFormatConfig
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && runtime.GOOS != "windows" && terminal.IsTerminal(int(f.Fd()))
}

func levelColor(l logrus.Level) aurora.Color {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return aurora.MagentaFg
	case logrus.WarnLevel:
		return aurora.BrownFg
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return aurora.RedFg
	}
	return aurora.CyanFg
}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	colored := (f.ForceColors || isColorTerminal(entry.Logger.Out)) && !f.DisableColors
	color := levelColor(entry.Level)
	paint := func(s string) string {
		if colored {
			return aurora.Colorize(s, color).String()
		}
		return s
	}

	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}
	if !f.DisableTimestamp {
		layout := f.TimestampFormat
		if layout == "" {
			layout = defaultTimestampFormat
		}
		b.WriteString(entry.Time.Format(layout))
		b.WriteByte(' ')
	}
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}
	b.WriteString(paint(fmt.Sprintf("%-4s", level)))
	if ns, ok := entry.Data[namespaceKey]; ok {
		fmt.Fprintf(b, " [%v]", ns)
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != namespaceKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%s", paint(k), fieldValue(entry.Data[k]))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// fieldValue renders scalars inline and everything else with kr/pretty.
// Strings that would break the key=value layout are quoted.
func fieldValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		if x == "" || strings.ContainsAny(x, " \t\n\"=") {
			return strconv.Quote(x)
		}
		return x
	case error:
		return strconv.Quote(x.Error())
	case fmt.Stringer:
		return x.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(x)
	}
	return pretty.Sprint(v)
}

func newFormatter(conf Logger) logrus.Formatter {
	switch strings.ToLower(conf.Formatter) {
	case "json":
		return &logrus.JSONFormatter{
			DisableTimestamp: conf.JSONFormat.DisableTimestamp,
			TimestampFormat:  conf.JSONFormat.TimestampFormat,
		}
	case "text", "":
	default:
		logger.Warningf("Unknown log formatter: '%s'; defaulting to 'text'", conf.Formatter)
	}
	return &textFormatter{conf.TextFormat}
}

// ConfigureLogger applies conf to the package logger
func ConfigureLogger(conf Logger) {
	level := logrus.InfoLevel
	if conf.Level != "" {
		l, err := logrus.ParseLevel(conf.Level)
		if err != nil {
			logger.Warningf("Unknown log level: '%s'; defaulting to 'info'", conf.Level)
		} else {
			level = l
		}
	}
	logger.SetLevel(level)
	logger.SetFormatter(newFormatter(conf))

	if conf.OutputFile != "" {
		fh, err := os.OpenFile(conf.OutputFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger.Errorf("Can't open log output file %s: %v", conf.OutputFile, err)
			return
		}
		logger.SetOutput(fh)
	}
}

// SetOutput redirects the package logger
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Debugf log message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Infof log message
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Warningf log message
func Warningf(format string, args ...interface{}) {
	logger.Warningf(format, args...)
}

// Fields type, used to pass to `WithFields`.
type Fields = logrus.Fields

// WithFields creates an entry from the package logger and adds multiple fields to it.
func WithFields(fields Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

// Sub returns an entry tagged with namespace ns, printed in brackets by the
// text formatter.
func Sub(ns string) *logrus.Entry {
	return logger.WithFields(Fields{namespaceKey: ns})
}
