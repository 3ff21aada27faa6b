package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Logger интерфейс для логирования паник. *logrus.Logger ему удовлетворяет.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler запускает горутины с перехватом panic.
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RecoveryHandler{logger: logger}
}

// Go запускает fn в отдельной горутине.
func (rh *RecoveryHandler) Go(fn func()) {
	go rh.run(fn)
}

// GoWithContext запускает fn с контекстом в отдельной горутине.
func (rh *RecoveryHandler) GoWithContext(ctx context.Context, fn func(context.Context)) {
	go rh.run(func() { fn(ctx) })
}

// run выполняет fn синхронно и логирует panic вместо падения процесса.
func (rh *RecoveryHandler) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			rh.logger.Errorf("panic в горутине: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}
