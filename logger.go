package expenses_bot

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type NamespaceHook struct {
	ns string
}

func (h *NamespaceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *NamespaceHook) Fire(e *logrus.Entry) error {
	e.Message = fmt.Sprintf("(%s) %s", h.ns, e.Message)
	return nil
}

func NewNamespaceHook(ns string) *NamespaceHook {
	return &NamespaceHook{ns: ns}
}

func NewLogger(level logrus.Level, namespace string) *logrus.Logger {
	logger := &logrus.Logger{
		Out:       os.Stdout,
		Formatter: &logrus.TextFormatter{DisableSorting: false},
		Hooks:     make(logrus.LevelHooks),
		Level:     level,
		ExitFunc:  os.Exit,
	}
	if len(namespace) > 0 {
		logger.AddHook(NewNamespaceHook(namespace))
	}
	return logger
}
