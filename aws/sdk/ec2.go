package sdk

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type EC2ClientInterface interface {
	DescribeInstances(context.Context, *ec2.DescribeInstancesInput, ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVpcs(context.Context, *ec2.DescribeVpcsInput, ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
}

// NewDescribeInstancesPager lists every instance in region, reservations
// flattened.
func NewDescribeInstancesPager(client EC2ClientInterface, region string) *TokenPager[ec2Types.Instance] {
	return NewTokenPager(func(ctx context.Context, token *string) ([]ec2Types.Instance, *string, error) {
		DescribeInstances, err := client.DescribeInstances(
			ctx,
			&ec2.DescribeInstancesInput{
				NextToken: token,
			},
			func(o *ec2.Options) {
				o.Region = region
			},
		)
		if err != nil {
			return nil, nil, err
		}

		var instances []ec2Types.Instance
		for _, reservation := range DescribeInstances.Reservations {
			instances = append(instances, reservation.Instances...)
		}
		return instances, DescribeInstances.NextToken, nil
	})
}

func NewDescribeVpcsPager(client EC2ClientInterface, region string) *TokenPager[ec2Types.Vpc] {
	return NewTokenPager(func(ctx context.Context, token *string) ([]ec2Types.Vpc, *string, error) {
		DescribeVpcs, err := client.DescribeVpcs(
			ctx,
			&ec2.DescribeVpcsInput{
				NextToken: token,
			},
			func(o *ec2.Options) {
				o.Region = region
			},
		)
		if err != nil {
			return nil, nil, err
		}
		return DescribeVpcs.Vpcs, DescribeVpcs.NextToken, nil
	})
}
