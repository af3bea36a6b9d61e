package globals

const CLOUDCENSUS_VERSION = "1.0.0"
const CLOUDCENSUS_USER_AGENT = "cloudcensus"

// Placeholder written in place of a missing optional field.
const NOT_APPLICABLE = "N/A"

// Regions any command may be pointed at.
var ValidRegions = []string{
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
	"ca-central-1",
	"eu-west-1",
	"eu-west-2",
	"eu-central-1",
}

var DefaultRegions = []string{"us-east-1", "us-east-2", "us-west-2"}
var DefaultVPCRegions = []string{"us-east-1", "us-east-2", "us-west-2", "ca-central-1"}

// ListBuckets is account-wide; this is only the endpoint it is sent to.
const S3_LISTING_REGION = "us-east-1"

const INSTANCES_MODULE_NAME = "instances"
const BUCKETS_MODULE_NAME = "buckets"
const VPCS_MODULE_NAME = "vpcs"
const LAMBDAS_MODULE_NAME = "lambdas"
const S3_SWEEP_MODULE_NAME = "s3-sweep"
const SSM_PUBLIC_SHARING_MODULE_NAME = "ssm-public-sharing"

const SSM_PUBLIC_SHARING_SETTING_ID = "/ssm/documents/console/public-sharing-permission"
const SSM_PUBLIC_SHARING_DISABLED = "Disable"

const CONFIRMATION_ANSWER = "yes"
