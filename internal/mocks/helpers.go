package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockPageFetcherForTest creates a new mock PageFetcher wired to the test lifecycle
func NewMockPageFetcherForTest(t *testing.T) *MockPageFetcher {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockPageFetcher(ctrl)
}
