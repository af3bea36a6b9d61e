package aws

import (
	"github.com/BishopFox/cloudcensus/aws/sdk"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

func InitEC2Client(AWSConfig aws.Config) sdk.EC2ClientInterface {
	return ec2.NewFromConfig(AWSConfig)
}

func InitS3Client(AWSConfig aws.Config) sdk.AWSS3ClientInterface {
	return s3.NewFromConfig(AWSConfig)
}

func InitLambdaClient(AWSConfig aws.Config) sdk.LambdaClientInterface {
	return lambda.NewFromConfig(AWSConfig)
}

func InitSTSClient(AWSConfig aws.Config) sdk.STSClientInterface {
	return sts.NewFromConfig(AWSConfig)
}

func InitSSMClient(AWSConfig aws.Config) sdk.SSMClientInterface {
	return ssm.NewFromConfig(AWSConfig)
}

func NewInstancesModule() *InstancesModule {
	return &InstancesModule{EC2Client: InitEC2Client}
}

func NewBucketsModule() *BucketsModule {
	return &BucketsModule{S3Client: InitS3Client}
}

func NewVPCsModule() *VPCsModule {
	return &VPCsModule{EC2Client: InitEC2Client}
}

func NewLambdasModule() *LambdasModule {
	return &LambdasModule{LambdaClient: InitLambdaClient}
}
