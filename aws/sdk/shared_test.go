package sdk

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPager(t *testing.T) {
	subtests := []struct {
		name      string
		tokens    []*string
		wantPages int
	}{
		{name: "single page", tokens: []*string{nil}, wantPages: 1},
		{name: "empty token ends", tokens: []*string{aws.String("a"), aws.String("")}, wantPages: 2},
		{name: "three pages", tokens: []*string{aws.String("a"), aws.String("b"), nil}, wantPages: 3},
		{name: "repeated token ends", tokens: []*string{aws.String("a"), aws.String("a"), aws.String("b")}, wantPages: 2},
	}

	for _, subtest := range subtests {
		t.Run(subtest.name, func(t *testing.T) {
			calls := 0
			pager := NewTokenPager(func(ctx context.Context, token *string) ([]int, *string, error) {
				next := subtest.tokens[calls]
				calls++
				return []int{calls}, next, nil
			})
			pages := 0
			for pager.HasMorePages() {
				_, err := pager.NextPage(context.Background())
				require.NoError(t, err)
				pages++
			}
			assert.Equal(t, subtest.wantPages, pages)
		})
	}
}

func TestTokenPagerStopsOnError(t *testing.T) {
	pager := NewTokenPager(func(ctx context.Context, token *string) ([]int, *string, error) {
		return nil, nil, errors.New("throttled")
	})
	_, err := pager.NextPage(context.Background())
	assert.Error(t, err)
	assert.False(t, pager.HasMorePages())
}

func TestDescribeInstancesPager(t *testing.T) {
	client := &MockedEC2Client{
		InstancePages: [][]ec2Types.Instance{
			{{InstanceId: aws.String("i-1")}, {InstanceId: aws.String("i-2")}},
			{{InstanceId: aws.String("i-3")}},
		},
	}
	pager := NewDescribeInstancesPager(client, "us-west-2")

	var ids []string
	for pager.HasMorePages() {
		instances, err := pager.NextPage(context.Background())
		require.NoError(t, err)
		for _, i := range instances {
			ids = append(ids, aws.ToString(i.InstanceId))
		}
	}
	assert.Equal(t, []string{"i-1", "i-2", "i-3"}, ids)
	assert.Equal(t, []string{"us-west-2", "us-west-2"}, client.Regions)
}
