package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(contentType string, content []byte) (string, error) {
	args := m.Called(contentType, content)
	return args.String(0), args.Error(1)
}

func (m *MockTextExtractor) Supports(contentType string) bool {
	args := m.Called(contentType)
	return args.Bool(0)
}
