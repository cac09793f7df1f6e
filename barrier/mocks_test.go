package barrier

import (
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/userlock/diag"
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Warn(text string) {
	m.Called(text)
}

// Fatal honors the Sink contract by never returning
func (m *mockSink) Fatal(text string) {
	m.Called(text)
	panic(&diag.MisuseError{Text: text})
}
