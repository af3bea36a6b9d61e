package sdk

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type MockedSSMClient struct {
	// FailRegions maps a region to the error UpdateServiceSetting returns there.
	FailRegions map[string]error

	mu      sync.Mutex
	Updated []string
}

func (m *MockedSSMClient) UpdateServiceSetting(ctx context.Context, input *ssm.UpdateServiceSettingInput, options ...func(*ssm.Options)) (*ssm.UpdateServiceSettingOutput, error) {
	var o ssm.Options
	for _, fn := range options {
		fn(&o)
	}
	if err, ok := m.FailRegions[o.Region]; ok {
		return nil, err
	}
	m.mu.Lock()
	m.Updated = append(m.Updated, o.Region+":"+aws.ToString(input.SettingId)+"="+aws.ToString(input.SettingValue))
	m.mu.Unlock()
	return &ssm.UpdateServiceSettingOutput{}, nil
}
