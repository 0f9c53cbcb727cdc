package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
)

// Log levels
const (
	LevelError = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

var (
	Info    *log.Logger
	Debug   *log.Logger
	Warning *log.Logger
	Error   *log.Logger

	// LogLevel controls which helpers emit output.
	LogLevel = LevelWarning

	mu        sync.Mutex
	useColors = true

	// Writers survive color toggles so a log file set up earlier is kept.
	infoOut, debugOut, warningOut, errorOut io.Writer
)

// Initialize sets up the loggers with the specified output.
// nil handles default to stderr so that report output on stdout stays clean.
func Initialize(infoHandle, debugHandle, warningHandle, errorHandle io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	infoOut = orStderr(infoHandle)
	debugOut = orStderr(debugHandle)
	warningOut = orStderr(warningHandle)
	errorOut = orStderr(errorHandle)
	build()
}

// SetOutput sends every level to w.
func SetOutput(w io.Writer) {
	Initialize(w, w, w, w)
}

func orStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func build() {
	prefix := func(color, name string) string {
		if useColors {
			return color + name + ": " + colorReset
		}
		return name + ": "
	}

	Info = log.New(infoOut, prefix(colorBlue, "INFO"), logFlags)
	Debug = log.New(debugOut, prefix(colorPurple, "DEBUG"), logFlags)
	Warning = log.New(warningOut, prefix(colorYellow, "WARNING"), logFlags)
	Error = log.New(errorOut, prefix(colorRed, "ERROR"), logFlags)
}

// EnableColors enables colored output
func EnableColors() {
	mu.Lock()
	defer mu.Unlock()
	useColors = true
	build()
}

// DisableColors disables colored output
func DisableColors() {
	mu.Lock()
	defer mu.Unlock()
	useColors = false
	build()
}

// SetLevel sets the logging level
func SetLevel(level int) {
	if level >= LevelError && level <= LevelDebug {
		LogLevel = level
	}
}

func Infof(format string, v ...interface{}) {
	if LogLevel >= LevelInfo {
		Info.Output(2, fmt.Sprintf(format, v...))
	}
}

func Debugf(format string, v ...interface{}) {
	if LogLevel >= LevelDebug {
		Debug.Output(2, fmt.Sprintf(format, v...))
	}
}

func Warningf(format string, v ...interface{}) {
	if LogLevel >= LevelWarning {
		Warning.Output(2, fmt.Sprintf(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if LogLevel >= LevelError {
		Error.Output(2, fmt.Sprintf(format, v...))
	}
}

func init() {
	Initialize(nil, nil, nil, nil)
}
