package sdk

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdaTypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type MockedLambdaClient struct {
	Pages      [][]lambdaTypes.FunctionConfiguration
	FailAtPage int
	Err        error
}

func (m *MockedLambdaClient) ListFunctions(ctx context.Context, input *lambda.ListFunctionsInput, options ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error) {
	if m.Pages == nil {
		return &lambda.ListFunctionsOutput{
			Functions: []lambdaTypes.FunctionConfiguration{
				{
					FunctionArn:  aws.String("arn:aws:lambda:us-east-1:123456789012:function:my-function"),
					FunctionName: aws.String("my-function"),
					Handler:      aws.String("index.handler"),
					Runtime:      lambdaTypes.RuntimeNodejs18x,
					PackageType:  lambdaTypes.PackageTypeZip,
				},
				{
					FunctionArn:  aws.String("arn:aws:lambda:us-east-1:123456789012:function:my-image-function"),
					FunctionName: aws.String("my-image-function"),
					PackageType:  lambdaTypes.PackageTypeImage,
				},
			},
		}, nil
	}

	i := mockPageIndex(input.Marker)
	if m.Err != nil && i == m.FailAtPage {
		return nil, m.Err
	}
	out := &lambda.ListFunctionsOutput{NextMarker: mockNextToken(i, len(m.Pages))}
	if i < len(m.Pages) {
		out.Functions = m.Pages[i]
	}
	return out, nil
}
