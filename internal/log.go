package internal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BishopFox/cloudcensus/globals"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/text"
	"github.com/kyokomi/emoji"
	"github.com/sirupsen/logrus"
)

var TxtLog = TxtLogger(os.Stderr)

func init() {
	text.EnableColors()
}

// TxtLogger returns the process text logger. Each entry is written with a
// single Write call so concurrent cells never interleave within a line.
func TxtLogger(out io.Writer) *logrus.Logger {
	txtLogger := logrus.New()
	txtLogger.Out = out
	txtLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	txtLogger.SetLevel(logrus.InfoLevel)
	return txtLogger
}

// ParseLogLevel maps the CLI level names onto logrus levels.
func ParseLogLevel(name string) (logrus.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return logrus.DebugLevel, nil
	case "INFO":
		return logrus.InfoLevel, nil
	case "WARNING", "WARN":
		return logrus.WarnLevel, nil
	case "ERROR":
		return logrus.ErrorLevel, nil
	case "CRITICAL":
		return logrus.FatalLevel, nil
	}
	return logrus.InfoLevel, fmt.Errorf("invalid log level %q (want DEBUG, INFO, WARNING, ERROR or CRITICAL)", name)
}

func SetLogLevel(name string) error {
	level, err := ParseLogLevel(name)
	if err != nil {
		return err
	}
	TxtLog.SetLevel(level)
	return nil
}

type Logger struct {
	version string
	out     io.Writer
}

func NewLogger() Logger {
	return Logger{
		version: globals.CLOUDCENSUS_VERSION,
		out:     os.Stdout,
	}
}

func (l *Logger) banner() string {
	return emoji.Sprintf(":bar_chart:cloudcensus %s", l.version)
}

func (l *Logger) InfoM(text string, module string) {
	var cyan = color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(l.out, "[%s][%s] %s\n", cyan(l.banner()), cyan(module), text)
}

func (l *Logger) SuccessM(text string, module string) {
	var green = color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(l.out, "[%s][%s] %s\n", green(l.banner()), green(module), text)
}

func (l *Logger) ErrorM(text string, module string) {
	var red = color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(l.out, "[%s][%s] %s\n", red(l.banner()), red(module), text)
	TxtLog.WithField("module", module).Error(text)
}
