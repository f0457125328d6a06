package cmd

import (
	"context"
	"errors"
	"io/ioutil"

	awsutil "github.com/alec-rabold/zipindex/pkg/aws"
	"github.com/spf13/cobra"
)

var input, bucket, key string

// loadArchive reads the whole archive into memory from either a local file
// (-i) or an S3 object (-b/-k).
func loadArchive(ctx context.Context) ([]byte, error) {
	switch {
	case input != "":
		return ioutil.ReadFile(input)
	case bucket != "" && key != "":
		return awsutil.NewClient().DownloadObject(ctx, bucket, key)
	default:
		return nil, errors.New("must specify either an input file (-i) or a bucket and key (-b, -k)")
	}
}

// addSourceFlags registers the archive source flags shared by subcommands.
func addSourceFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&input, "input", "i", "", "path of a local zip archive")
	cmd.PersistentFlags().StringVarP(&bucket, "bucket", "b", "", "name of the S3 bucket")
	cmd.PersistentFlags().StringVarP(&key, "key", "k", "", "name of the S3 key (object)")
}
