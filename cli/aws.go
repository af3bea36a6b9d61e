package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BishopFox/cloudcensus/aws"
	"github.com/BishopFox/cloudcensus/globals"
	"github.com/BishopFox/cloudcensus/internal"
	"github.com/spf13/cobra"
)

var (
	AWSProfileNames []string
	AWSProfilesList string
	AWSAllProfiles  bool
	AWSProfiles     []string
	AWSRegions      []string
	AWSConfirm      bool
	LogLevel        string
	Goroutines      int
	CellTimeout     time.Duration
	ShowProgress    bool

	OutputPath     string
	OutputFormat   string
	DryRun         bool
	TableFormat    string
	TruncateTable  bool
	resolvedFormat string
	// Set from --regions on the buckets command only.
	bucketHomeRegions []string

	SweepTargets     []string
	SweepTargetsFile string
	SweepDryRun      bool
	sweepTargets     []aws.SweepTarget

	AWSCommands = &cobra.Command{
		Use:   "aws",
		Short: "See \"Available Commands\" for AWS Modules",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	InstancesCommand = &cobra.Command{
		Use:     globals.INSTANCES_MODULE_NAME,
		Aliases: []string{"instance", "ec2"},
		Short:   "List EC2 instances with their addresses, network placement and ENIs",
		Long: "\nUse case examples:\n" +
			os.Args[0] + " aws instances --profile readonly_profile\n" +
			os.Args[0] + " aws instances --regions us-east-1,us-west-2 --dry-run --tableformat fancy_grid",
		PreRunE: awsListingPreRun,
		RunE:    runListingCommand(func() aws.CollectorModule { return aws.NewInstancesModule() }),
	}

	BucketsCommand = &cobra.Command{
		Use:     globals.BUCKETS_MODULE_NAME,
		Aliases: []string{"bucket", "s3"},
		Short:   "List S3 buckets and the region each lives in",
		Long: "\nBuckets are listed account-wide. --regions keeps only buckets homed in those regions.\n" +
			"\nUse case examples:\n" +
			os.Args[0] + " aws buckets --profile readonly_profile --outputformat JSON",
		PreRunE: awsListingPreRun,
		RunE: runListingCommand(func() aws.CollectorModule {
			m := aws.NewBucketsModule()
			m.HomeRegions = bucketHomeRegions
			return m
		}),
	}

	VPCsCommand = &cobra.Command{
		Use:     globals.VPCS_MODULE_NAME,
		Aliases: []string{"vpc"},
		Short:   "List VPCs with their IPv4 and IPv6 CIDR blocks",
		Long: "\nUse case examples:\n" +
			os.Args[0] + " aws vpcs -l profiles.txt --output vpcs.csv",
		PreRunE: awsListingPreRun,
		RunE:    runListingCommand(func() aws.CollectorModule { return aws.NewVPCsModule() }),
	}

	LambdasCommand = &cobra.Command{
		Use:     globals.LAMBDAS_MODULE_NAME,
		Aliases: []string{"lambda", "functions"},
		Short:   "List Lambda functions and their runtimes",
		Long: "\nUse case examples:\n" +
			os.Args[0] + " aws lambdas --profile readonly_profile --dry-run",
		PreRunE: awsListingPreRun,
		RunE:    runListingCommand(func() aws.CollectorModule { return aws.NewLambdasModule() }),
	}

	S3SweepCommand = &cobra.Command{
		Use:   globals.S3_SWEEP_MODULE_NAME,
		Short: "Delete every object version and delete marker under the given bucket prefixes",
		Long: "\nRuns in dry-run mode unless --dry-run=false is given.\n" +
			"\nUse case examples:\n" +
			os.Args[0] + " aws s3-sweep --profile admin --target my-bucket/logs/\n" +
			os.Args[0] + " aws s3-sweep --profile admin --targets-file targets.txt --dry-run=false",
		PreRunE: awsSweepPreRun,
		RunE:    runS3SweepCommand,
	}

	SSMPublicSharingCommand = &cobra.Command{
		Use:   globals.SSM_PUBLIC_SHARING_MODULE_NAME,
		Short: "Disable public sharing of SSM documents in every profile and region",
		Long: "\nUse case examples:\n" +
			os.Args[0] + " aws ssm-public-sharing -l profiles.txt --dry-run",
		PreRunE: awsPreRun,
		RunE:    runSSMPublicSharingCommand,
	}
)

// defaultRegions returns the region set a command uses when --regions is
// not given.
func defaultRegions(command string) []string {
	switch command {
	case globals.VPCS_MODULE_NAME:
		return globals.DefaultVPCRegions
	case globals.BUCKETS_MODULE_NAME:
		return []string{globals.S3_LISTING_REGION}
	}
	return globals.DefaultRegions
}

func initAWSProfiles() error {
	AWSProfiles = nil
	// Ensure only one profile setting is chosen
	chosen := 0
	if len(AWSProfileNames) > 0 {
		chosen++
	}
	if AWSProfilesList != "" {
		chosen++
	}
	if AWSAllProfiles {
		chosen++
	}
	if chosen > 1 {
		return fmt.Errorf("choose only one of -p/--profile, -a/--all-profiles, -l/--profiles-list")
	}

	switch {
	case len(AWSProfileNames) > 0:
		AWSProfiles = append(AWSProfiles, AWSProfileNames...)
	case AWSProfilesList != "":
		profiles, err := internal.GetSelectedAWSProfiles(AWSProfilesList)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			return fmt.Errorf("no profiles found in %s", AWSProfilesList)
		}
		AWSProfiles = profiles
	}
	// Leaving AWSProfiles empty lets the resolver pick every local profile.
	return nil
}

// awsPreRun validates everything shared by all AWS commands. Nothing here
// talks to AWS.
func awsPreRun(cmd *cobra.Command, args []string) error {
	if err := internal.SetLogLevel(LogLevel); err != nil {
		return err
	}
	if err := initAWSProfiles(); err != nil {
		return err
	}
	if !regionsGiven(cmd) {
		AWSRegions = defaultRegions(cmd.Name())
	}
	if err := internal.ValidateRegions(AWSRegions, globals.ValidRegions); err != nil {
		return err
	}
	if Goroutines < 1 {
		return fmt.Errorf("--max-goroutines must be at least 1")
	}
	return nil
}

func regionsGiven(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("regions") || cmd.InheritedFlags().Changed("regions")
}

func awsListingPreRun(cmd *cobra.Command, args []string) error {
	if err := awsPreRun(cmd, args); err != nil {
		return err
	}

	bucketHomeRegions = nil
	if cmd.Name() == globals.BUCKETS_MODULE_NAME {
		if regionsGiven(cmd) {
			bucketHomeRegions = AWSRegions
		}
		AWSRegions = []string{globals.S3_LISTING_REGION}
	}

	format, err := internal.ParseOutputFormat(OutputFormat)
	if err != nil {
		return err
	}
	resolvedFormat = format

	if TableFormat != "" {
		if err := internal.ValidateTableStyle(TableFormat); err != nil {
			return err
		}
	}

	if DryRun {
		return nil
	}
	if OutputPath == "" {
		OutputPath = internal.DefaultOutputPath(outputPrefix(cmd.Name()), resolvedFormat, time.Now())
	}
	path, err := internal.ValidateOutputPath(OutputPath)
	if err != nil {
		return err
	}
	OutputPath = path
	return nil
}

func outputPrefix(command string) string {
	switch command {
	case globals.INSTANCES_MODULE_NAME:
		return aws.NewInstancesModule().Layout().FilePrefix
	case globals.BUCKETS_MODULE_NAME:
		return aws.NewBucketsModule().Layout().FilePrefix
	case globals.VPCS_MODULE_NAME:
		return aws.NewVPCsModule().Layout().FilePrefix
	case globals.LAMBDAS_MODULE_NAME:
		return aws.NewLambdasModule().Layout().FilePrefix
	}
	return command
}

func gridOptions() internal.GridOptions {
	opts := internal.GridOptions{
		Concurrency: Goroutines,
		CellTimeout: CellTimeout,
	}
	if ShowProgress && internal.IsTerminal(os.Stderr) {
		opts.Progress = os.Stderr
	}
	return opts
}

func runListingCommand(newModule func() aws.CollectorModule) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		overflow := internal.OverflowWrap
		if TruncateTable {
			overflow = internal.OverflowTruncate
		}

		_, err := aws.RunCollector(context.Background(), newModule(), aws.CollectorOptions{
			Profiles:      AWSProfiles,
			Regions:       AWSRegions,
			Resolver:      aws.NewProfileResolver(),
			RegionSupport: internal.NewServiceMap(),
			Grid:          gridOptions(),
			Output: internal.OutputConfig{
				Path:   OutputPath,
				Format: resolvedFormat,
				DryRun: DryRun,
				Table: internal.TableOptions{
					Style:    TableFormat,
					Overflow: overflow,
				},
			},
		})
		if err != nil {
			// The failure is already logged; a missing artifact does not
			// change the exit status.
			internal.TxtLog.Debugf("artifact not written: %s", err)
		}
		return nil
	}
}

func awsSweepPreRun(cmd *cobra.Command, args []string) error {
	// Each bucket is swept in its own region.
	if regionsGiven(cmd) {
		return fmt.Errorf("--regions does not apply to %s", globals.S3_SWEEP_MODULE_NAME)
	}
	if err := awsPreRun(cmd, args); err != nil {
		return err
	}

	sweepTargets = nil
	for _, raw := range SweepTargets {
		t, err := aws.ParseSweepTarget(raw)
		if err != nil {
			return err
		}
		sweepTargets = append(sweepTargets, t)
	}
	if SweepTargetsFile != "" {
		fromFile, err := aws.ReadSweepTargets(internal.UtilsFs, SweepTargetsFile)
		if err != nil {
			return err
		}
		sweepTargets = append(sweepTargets, fromFile...)
	}
	if len(sweepTargets) == 0 {
		return fmt.Errorf("no sweep targets given, use --target or --targets-file")
	}
	return nil
}

func runS3SweepCommand(cmd *cobra.Command, args []string) error {
	if !AWSConfirm && !aws.ConfirmDestruction(os.Stdin, os.Stdout, sweepTargets, AWSProfiles, SweepDryRun) {
		return fmt.Errorf("sweep aborted by user")
	}
	if SweepDryRun {
		logger := internal.NewLogger()
		logger.InfoM("Dry run, no objects will be deleted.", globals.S3_SWEEP_MODULE_NAME)
	}

	aws.NewS3SweepModule().Sweep(context.Background(), aws.SweepConfig{
		Profiles: AWSProfiles,
		Targets:  sweepTargets,
		DryRun:   SweepDryRun,
		Resolver: aws.NewProfileResolver(),
		Grid:     gridOptions(),
	})
	return nil
}

func runSSMPublicSharingCommand(cmd *cobra.Command, args []string) error {
	aws.NewSSMPublicSharingModule().Run(context.Background(), aws.SSMPublicSharingConfig{
		Profiles:      AWSProfiles,
		Regions:       AWSRegions,
		DryRun:        DryRun,
		Resolver:      aws.NewProfileResolver(),
		RegionSupport: internal.NewServiceMap(),
		Grid:          gridOptions(),
	})
	return nil
}

func addListingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&OutputPath, "output", "o", "", "Output file (default: <prefix>_<timestamp>.<csv|json>)")
	cmd.Flags().StringVar(&OutputFormat, "outputformat", internal.FormatCSV, "[\"JSON\" | \"CSV\"]")
	cmd.Flags().BoolVar(&DryRun, "dry-run", false, "Print to the console instead of writing a file")
	cmd.Flags().StringVar(&TableFormat, "tableformat", "", "Dry-run table style [\"plain\" | \"pipe\" | \"github\" | \"grid\" | \"fancy_grid\"]")
	cmd.Flags().BoolVar(&TruncateTable, "truncate", false, "Truncate long table cells instead of wrapping them")
}

func init() {
	for _, cmd := range []*cobra.Command{InstancesCommand, BucketsCommand, VPCsCommand, LambdasCommand} {
		addListingFlags(cmd)
	}

	S3SweepCommand.Flags().StringArrayVar(&SweepTargets, "target", nil, "Bucket or bucket/prefix to sweep (repeatable)")
	S3SweepCommand.Flags().StringVar(&SweepTargetsFile, "targets-file", "", "File containing bucket[/prefix] targets separated by newlines")
	S3SweepCommand.Flags().BoolVar(&SweepDryRun, "dry-run", true, "Log what would be deleted without deleting anything")

	SSMPublicSharingCommand.Flags().BoolVar(&DryRun, "dry-run", false, "Log the change without applying it")

	AWSCommands.PersistentFlags().StringArrayVarP(&AWSProfileNames, "profile", "p", nil, "AWS CLI Profile Name (repeatable)")
	AWSCommands.PersistentFlags().StringVarP(&AWSProfilesList, "profiles-list", "l", "", "File containing a AWS CLI profile names separated by newlines")
	AWSCommands.PersistentFlags().BoolVarP(&AWSAllProfiles, "all-profiles", "a", false, "Use all AWS CLI profiles in AWS credentials file")
	AWSCommands.PersistentFlags().StringSliceVarP(&AWSRegions, "regions", "r", nil, "Comma separated regions to query (default depends on the command)")
	AWSCommands.PersistentFlags().BoolVarP(&AWSConfirm, "yes", "y", false, "Non-interactive mode, skip confirmation prompts")
	AWSCommands.PersistentFlags().StringVar(&LogLevel, "log-level", "INFO", "[\"DEBUG\" | \"INFO\" | \"WARNING\" | \"ERROR\" | \"CRITICAL\"]")
	AWSCommands.PersistentFlags().IntVarP(&Goroutines, "max-goroutines", "g", 1, "Maximum number of (profile, region) cells processed at once")
	AWSCommands.PersistentFlags().DurationVar(&CellTimeout, "cell-timeout", 5*time.Minute, "Give up on a single (profile, region) cell after this long, 0 to disable")
	AWSCommands.PersistentFlags().BoolVar(&ShowProgress, "progress", false, "Show a progress line while cells run")

	AWSCommands.AddCommand(
		InstancesCommand,
		BucketsCommand,
		VPCsCommand,
		LambdasCommand,
		S3SweepCommand,
		SSMPublicSharingCommand,
	)
}
