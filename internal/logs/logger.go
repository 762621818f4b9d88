// Package logs writes an operational record of each run to a rotated file
// under the workspace. Console output lives in the display package; this
// file log exists so a failed autonomous run can be reconstructed later.
package logs

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes engine events to the workspace log file
type Logger struct {
	logger *log.Logger
	file   *lumberjack.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton logger, creating the rotated log file under
// the given workspace directory on first use
func Get(workDir string) *Logger {
	once.Do(func() {
		file := &lumberjack.Logger{
			Filename:   filepath.Join(workDir, ".stepflow", "stepflow.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{
			logger: log.New(file, "", log.LstdFlags),
			file:   file,
		}
	})
	return globalLogger
}

// Close closes the logger resources
func (l *Logger) Close() error {
	return l.file.Close()
}

// RunStarted records the beginning of a run
func (l *Logger) RunStarted(request string, totalSteps int) {
	l.logger.Printf("Run started - Request: %s, Steps: %d", request, totalSteps)
}

// RunFinished records the outcome of a run
func (l *Logger) RunFinished(completed, total int, err error) {
	if err != nil {
		l.logger.Printf("Run failed - Completed: %d/%d, Error: %v", completed, total, err)
		return
	}
	l.logger.Printf("Run complete - Completed: %d/%d", completed, total)
}

// StepStatus records a step status transition
func (l *Logger) StepStatus(id int, description, status string) {
	l.logger.Printf("Step %d [%s] - %s", id, status, description)
}

// Command records an executed command and a short view of its output
func (l *Logger) Command(command, output string) {
	l.logger.Printf("Command: %s, Output: %s", command, truncate(output, 400))
}

// FileOp records an applied file operation
func (l *Logger) FileOp(path string, created bool, added, removed int) {
	verb := "updated"
	if created {
		verb = "created"
	}
	l.logger.Printf("File %s: %s (+%d/-%d)", verb, path, added, removed)
}

// Log writes a general message to the log file
func (l *Logger) Log(message string) {
	l.logger.Print(message)
}

// Logf writes a formatted message to the log file
func (l *Logger) Logf(format string, args ...any) {
	l.logger.Print(fmt.Sprintf(format, args...))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
