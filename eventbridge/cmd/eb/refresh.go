package main

import (
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/acksell/jassy/eventbridge/refresh"
)

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	var (
		bucket string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the trimmed resource spec in S3",
		Long: `Download the CloudFormation resource specification, keep only the
resource types AWS Config records, and upload the result to S3.

Without --bucket the destination comes from the DEST_BUCKET,
DEST_KEY_PREFIX and REGION environment variables, matching the deployed
job. The run result prints as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg := refresh.Config{
				Bucket:    bucket,
				KeyPrefix: prefix,
				Region:    opts.region,
				Logger:    opts.log,
			}
			if bucket == "" {
				envCfg, err := refresh.FromEnv()
				if err != nil {
					return err
				}
				cfg.Bucket = envCfg.Bucket
				if prefix == "" {
					cfg.KeyPrefix = envCfg.KeyPrefix
				}
				if envCfg.Region != "" && !cmd.Flags().Changed("region") {
					cfg.Region = envCfg.Region
				}
			}

			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
			if err != nil {
				return fmt.Errorf("load aws config: %w", err)
			}
			job, err := refresh.NewJob(cfg, s3.NewFromConfig(awsCfg))
			if err != nil {
				return err
			}

			result, runErr := job.Run(ctx)
			if runErr != nil {
				result = refresh.ErrorResult(runErr)
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return runErr
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "destination S3 bucket (falls back to DEST_BUCKET)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "object key prefix (falls back to DEST_KEY_PREFIX)")
	return cmd
}
