package sdk

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type LambdaClientInterface interface {
	ListFunctions(context.Context, *lambda.ListFunctionsInput, ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
}

func NewListFunctionsPager(client LambdaClientInterface, region string) *TokenPager[lambdaTypes.FunctionConfiguration] {
	return NewTokenPager(func(ctx context.Context, marker *string) ([]lambdaTypes.FunctionConfiguration, *string, error) {
		ListFunctions, err := client.ListFunctions(
			ctx,
			&lambda.ListFunctionsInput{
				Marker: marker,
			},
			func(o *lambda.Options) {
				o.Region = region
			},
		)
		if err != nil {
			return nil, nil, err
		}
		return ListFunctions.Functions, ListFunctions.NextMarker, nil
	})
}
