package logger

type nopLogger struct{}

// NewNopLogger returns a Logger that discards everything. Used in tests
// and as a default before InitLogger runs.
func NewNopLogger() Logger {
	return &nopLogger{}
}

func (n *nopLogger) InitLogger()                          {}
func (n *nopLogger) Debug(...interface{})                 {}
func (n *nopLogger) Debugf(string, ...interface{})        {}
func (n *nopLogger) Info(...interface{})                  {}
func (n *nopLogger) Infof(string, ...interface{})         {}
func (n *nopLogger) Warn(...interface{})                  {}
func (n *nopLogger) Warnf(string, ...interface{})         {}
func (n *nopLogger) Error(...interface{})                 {}
func (n *nopLogger) Errorf(string, ...interface{})        {}
func (n *nopLogger) Panic(...interface{})                 {}
func (n *nopLogger) Panicf(string, ...interface{})        {}
func (n *nopLogger) Fatal(...interface{})                 {}
func (n *nopLogger) Fatalf(string, ...interface{})        {}
