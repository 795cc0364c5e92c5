package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertMocksAllCalled fails the test if any stub was never triggered.
func AssertMocksAllCalled(t *testing.T, mt *MockTransport) {
	t.Helper()
	for _, err := range mt.AssertAllCalled() {
		assert.NoError(t, err)
	}
}

// AssertJSONBody compares a recorded request body with expected after
// normalising both through JSON, so key order and whitespace never matter.
func AssertJSONBody(t *testing.T, expected interface{}, actual []byte) {
	t.Helper()

	raw, err := json.Marshal(expected)
	require.NoError(t, err, "expected value is not JSON-encodable")

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal(raw, &expVal))
	if !assert.NoError(t, json.Unmarshal(actual, &actVal), "actual body is not valid JSON\nbody: %s", string(actual)) {
		return
	}
	assert.Equal(t, expVal, actVal, "request body mismatch")
}
