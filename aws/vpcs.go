package aws

import (
	"context"

	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type VPCsModule struct {
	EC2Client func(aws.Config) sdk.EC2ClientInterface
}

func (m *VPCsModule) Kind() string {
	return globals.VPCS_MODULE_NAME
}

func (m *VPCsModule) Service() string {
	return "ec2"
}

func (m *VPCsModule) Open(ctx context.Context, cell internal.Cell, accountID string) (internal.Pager, error) {
	client := m.EC2Client(cell.Context.Config)
	pager := sdk.NewDescribeVpcsPager(client, cell.Region)
	return internal.NewPager(pager.HasMorePages, pager.NextPage, func(vpcs []types.Vpc) []*internal.Record {
		records := make([]*internal.Record, 0, len(vpcs))
		for _, vpc := range vpcs {
			records = append(records, loadVPCRecord(vpc, accountID, cell.Region))
		}
		return records
	}), nil
}

func loadVPCRecord(vpc types.Vpc, accountID string, region string) *internal.Record {
	vpcID := aws.ToString(vpc.VpcId)

	cidr6 := ""
	if len(vpc.Ipv6CidrBlockAssociationSet) > 0 {
		cidr6 = aws.ToString(vpc.Ipv6CidrBlockAssociationSet[0].Ipv6CidrBlock)
	}

	associations := make(map[string]string, len(vpc.CidrBlockAssociationSet))
	for _, assoc := range vpc.CidrBlockAssociationSet {
		associations[aws.ToString(assoc.AssociationId)] = aws.ToString(assoc.CidrBlock)
	}

	record := internal.NewRecord(internal.NewKey(vpcID, accountID, region))
	record.Set("vpc_id", vpcID).
		Set("account_id", accountID).
		Set("region", region).
		SetOptional("cidr", aws.ToString(vpc.CidrBlock)).
		Set("cidr6", cidr6).
		Set("cidrassociations", associations).
		Set("is_default", aws.ToBool(vpc.IsDefault)).
		SetOptional("state", string(vpc.State))
	return record
}

func (m *VPCsModule) Layout() internal.Layout {
	return internal.Layout{
		Noun:       "VPCs",
		FilePrefix: "vpc_list",
		CSVColumns: []internal.Column{
			{Header: "VpcId", Field: "vpc_id"},
			{Header: "AccountId", Field: "account_id"},
			{Header: "Region", Field: "region"},
			{Header: "CIDR", Field: "cidr"},
			{Header: "CIDR6", Field: "cidr6"},
		},
		QuoteAll: true,
		TableColumns: []internal.Column{
			{Header: "VPC ID", Field: "vpc_id", Fraction: 0.5},
			{Header: "Account ID", Field: "account_id", Fraction: 0.3},
			{Header: "Region", Field: "region", Fraction: 0.2},
			{Header: "CIDR", Field: "cidr", Fraction: 0.2},
		},
		TableStyle: "plain",
		Compare:    internal.CompareFields("account_id", "region", "vpc_id"),
	}
}
