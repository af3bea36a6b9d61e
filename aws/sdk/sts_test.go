package sdk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedGetCallerIdentity(t *testing.T) {
	client := &MockedSTSClient{Account: "123456789012"}
	for i := 0; i < 3; i++ {
		account, err := CachedGetCallerIdentity(context.Background(), client, "sts-test-cached")
		require.NoError(t, err)
		assert.Equal(t, "123456789012", account)
	}
	assert.Equal(t, 1, client.Calls)

	failing := &MockedSTSClient{Err: errors.New("ExpiredToken")}
	_, err := CachedGetCallerIdentity(context.Background(), failing, "sts-test-failing")
	assert.Error(t, err)
	_, err = CachedGetCallerIdentity(context.Background(), failing, "sts-test-failing")
	assert.Error(t, err)
	assert.Equal(t, 2, failing.Calls)
}
