package aws

import (
	"context"

	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type LambdasModule struct {
	LambdaClient func(aws.Config) sdk.LambdaClientInterface
}

func (m *LambdasModule) Kind() string {
	return globals.LAMBDAS_MODULE_NAME
}

func (m *LambdasModule) Service() string {
	return "lambda"
}

func (m *LambdasModule) Open(ctx context.Context, cell internal.Cell, accountID string) (internal.Pager, error) {
	client := m.LambdaClient(cell.Context.Config)
	pager := sdk.NewListFunctionsPager(client, cell.Region)
	return internal.NewPager(pager.HasMorePages, pager.NextPage, func(functions []types.FunctionConfiguration) []*internal.Record {
		records := make([]*internal.Record, 0, len(functions))
		for _, function := range functions {
			records = append(records, loadFunctionRecord(function, accountID, cell.Region))
		}
		return records
	}), nil
}

// Container image functions have no runtime; they get N/A.
func loadFunctionRecord(function types.FunctionConfiguration, accountID string, region string) *internal.Record {
	name := aws.ToString(function.FunctionName)
	record := internal.NewRecord(internal.NewKey(name, accountID, region))
	record.Set("function_name", name).
		Set("account", accountID).
		SetOptional("runtime", string(function.Runtime)).
		Set("region", region).
		SetOptional("package_type", string(function.PackageType)).
		SetOptional("last_modified", aws.ToString(function.LastModified))
	return record
}

func (m *LambdasModule) Layout() internal.Layout {
	return internal.Layout{
		Noun:       "functions",
		FilePrefix: "lambda_functions",
		CSVColumns: []internal.Column{
			{Header: "Account", Field: "account"},
			{Header: "Function Name", Field: "function_name"},
			{Header: "Runtime", Field: "runtime"},
			{Header: "Region", Field: "region"},
		},
		TableColumns: []internal.Column{
			{Header: "Function Name", Field: "function_name", Fraction: 0.5},
			{Header: "Account", Field: "account", Fraction: 0.3},
			{Header: "Runtime", Field: "runtime", Fraction: 0.2},
			{Header: "Region", Field: "region", Fraction: 0.2},
		},
		TableStyle: "plain",
		Compare:    internal.CompareFields("account", "region", "function_name"),
	}
}
