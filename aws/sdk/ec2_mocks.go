package sdk

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// MockedEC2Client serves canned pages. When Err is set, the call for page
// FailAtPage returns it instead.
type MockedEC2Client struct {
	InstancePages [][]ec2Types.Instance
	VpcPages      [][]ec2Types.Vpc
	FailAtPage    int
	Err           error

	mu      sync.Mutex
	Regions []string
}

func (m *MockedEC2Client) record(optFns []func(*ec2.Options)) {
	var o ec2.Options
	for _, fn := range optFns {
		fn(&o)
	}
	m.mu.Lock()
	m.Regions = append(m.Regions, o.Region)
	m.mu.Unlock()
}

func (m *MockedEC2Client) DescribeInstances(ctx context.Context, input *ec2.DescribeInstancesInput, options ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	m.record(options)
	i := mockPageIndex(input.NextToken)
	if m.Err != nil && i == m.FailAtPage {
		return nil, m.Err
	}
	out := &ec2.DescribeInstancesOutput{NextToken: mockNextToken(i, len(m.InstancePages))}
	if i < len(m.InstancePages) {
		out.Reservations = []ec2Types.Reservation{{Instances: m.InstancePages[i]}}
	}
	return out, nil
}

func (m *MockedEC2Client) DescribeVpcs(ctx context.Context, input *ec2.DescribeVpcsInput, options ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	m.record(options)
	i := mockPageIndex(input.NextToken)
	if m.Err != nil && i == m.FailAtPage {
		return nil, m.Err
	}
	out := &ec2.DescribeVpcsOutput{NextToken: mockNextToken(i, len(m.VpcPages))}
	if i < len(m.VpcPages) {
		out.Vpcs = m.VpcPages[i]
	}
	return out, nil
}
