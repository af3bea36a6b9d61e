package sdk

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type MockedSTSClient struct {
	Account string
	Err     error

	mu    sync.Mutex
	Calls int
}

func (m *MockedSTSClient) GetCallerIdentity(ctx context.Context, input *sts.GetCallerIdentityInput, options ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(m.Account),
		Arn:     aws.String("arn:aws:iam::" + m.Account + ":user/cloudcensus"),
		UserId:  aws.String("AIDAEXAMPLE"),
	}, nil
}
