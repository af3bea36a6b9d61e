package aws

import (
	"context"

	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

type InstancesModule struct {
	// Builds the EC2 client for a cell. Replaced with a mock in tests.
	EC2Client func(aws.Config) sdk.EC2ClientInterface
}

// NetworkInterface is the per-ENI detail kept on an instance record.
type NetworkInterface struct {
	PrivateIpAddress string        `json:"PrivateIpAddress"`
	Ipv6Addresses    []Ipv6Address `json:"Ipv6Addresses"`
	VpcId            string        `json:"VpcId"`
	SubnetId         string        `json:"SubnetId"`
}

type Ipv6Address struct {
	Ipv6Address string `json:"Ipv6Address"`
}

func (m *InstancesModule) Kind() string {
	return globals.INSTANCES_MODULE_NAME
}

func (m *InstancesModule) Service() string {
	return "ec2"
}

func (m *InstancesModule) Open(ctx context.Context, cell internal.Cell, accountID string) (internal.Pager, error) {
	client := m.EC2Client(cell.Context.Config)
	pager := sdk.NewDescribeInstancesPager(client, cell.Region)
	return internal.NewPager(pager.HasMorePages, pager.NextPage, func(instances []types.Instance) []*internal.Record {
		records := make([]*internal.Record, 0, len(instances))
		for _, instance := range instances {
			records = append(records, loadInstanceRecord(instance, accountID, cell.Region))
		}
		return records
	}), nil
}

func loadInstanceRecord(instance types.Instance, accountID string, region string) *internal.Record {
	instanceID := aws.ToString(instance.InstanceId)
	name := internal.LookupTag(instance.Tags, "Name", func(t types.Tag) (string, string) {
		return aws.ToString(t.Key), aws.ToString(t.Value)
	})

	az := internal.NotApplicable
	if instance.Placement != nil && instance.Placement.AvailabilityZone != nil {
		az = aws.ToString(instance.Placement.AvailabilityZone)
	}
	state := internal.NotApplicable
	if instance.State != nil {
		state = string(instance.State.Name)
	}

	// Absent public address stays null, matching the CSV's empty cell.
	var publicIP interface{}
	if instance.PublicIpAddress != nil {
		publicIP = aws.ToString(instance.PublicIpAddress)
	}

	enis := make(map[string]NetworkInterface, len(instance.NetworkInterfaces))
	for _, eni := range instance.NetworkInterfaces {
		ipv6 := make([]Ipv6Address, 0, len(eni.Ipv6Addresses))
		for _, addr := range eni.Ipv6Addresses {
			ipv6 = append(ipv6, Ipv6Address{Ipv6Address: aws.ToString(addr.Ipv6Address)})
		}
		enis[aws.ToString(eni.NetworkInterfaceId)] = NetworkInterface{
			PrivateIpAddress: aws.ToString(eni.PrivateIpAddress),
			Ipv6Addresses:    ipv6,
			VpcId:            aws.ToString(eni.VpcId),
			SubnetId:         aws.ToString(eni.SubnetId),
		}
	}

	record := internal.NewRecord(internal.NewKey(instanceID, accountID, region))
	record.Set("instance_id", instanceID).
		Set("instance_name", name).
		Set("account", accountID).
		SetOptional("type", string(instance.InstanceType)).
		Set("state", state).
		Set("az", az).
		SetOptional("privateipv4", aws.ToString(instance.PrivateIpAddress)).
		Set("publicipv4", publicIP).
		SetOptional("vpc", aws.ToString(instance.VpcId)).
		SetOptional("subnet", aws.ToString(instance.SubnetId)).
		Set("enis", enis)
	return record
}

func (m *InstancesModule) Layout() internal.Layout {
	return internal.Layout{
		Noun:       "instances",
		FilePrefix: "ec2_instances",
		CSVColumns: []internal.Column{
			{Header: "InstanceID", Field: "instance_id"},
			{Header: "Name", Field: "instance_name"},
			{Header: "Account", Field: "account"},
			{Header: "Type", Field: "type"},
			{Header: "State", Field: "state"},
			{Header: "AZ", Field: "az"},
			{Header: "PrivateIP", Field: "privateipv4"},
			{Header: "PublicIP", Field: "publicipv4"},
			{Header: "VPC", Field: "vpc"},
			{Header: "Subnet", Field: "subnet"},
			{Header: "ENIs", Field: "enis"},
		},
		TableColumns: []internal.Column{
			{Header: "Name", Field: "instance_name", Fraction: 0.5},
			{Header: "Instance ID", Field: "instance_id", Fraction: 0.5},
			{Header: "Account", Field: "account", Fraction: 0.3},
			{Header: "AZ", Field: "az", Fraction: 0.2},
		},
		TableStyle: "github",
		Compare:    internal.CompareFields("account", "az", "instance_id"),
	}
}
