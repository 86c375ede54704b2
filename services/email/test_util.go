package emailsvc

import (
	"github.com/vaaniprep/vaani/core"
)

type consoleServiceMock struct {
	consoleService
}

// NewConsoleServiceMock sends messages synchronously and records them in
// SentMessages for tests to inspect.
func NewConsoleServiceMock(conf *core.Config) core.EmailService {
	return &consoleServiceMock{
		consoleService: consoleService{
			conf:             conf,
			defaultFromEmail: conf.DefaultFromEmail,
			subjPrefix:       "[" + conf.AppName + "] ",
			disableOutput:    true,
		},
	}
}

func (svc consoleServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		svc.sendMessage(msg)
	}
}
