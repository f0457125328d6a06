package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alec-rabold/zipindex/pkg/reader"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the members of a zip archive",
	Long: `Reads the archive's central directory and prints every member with
	its compression method and sizes, without decompressing anything.

	ex:
	zipindex list -i archive.zip
	zipindex list -b myBucket -k myKey`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := loadArchive(context.Background())
		if err != nil {
			log.Errorf("error loading archive, err: %v", err)
			return err
		}
		archive, err := reader.Parse(buf)
		if err != nil {
			log.Errorf("error parsing archive, err: %v", err)
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMETHOD\tCOMPRESSED\tUNCOMPRESSED\tOFFSET")
		for _, e := range archive.Entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
				e.Name, methodName(e.Method), e.CompressedSize, e.UncompressedSize, e.Offset)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(archive.Comment) > 0 {
			fmt.Printf("comment: %s\n", archive.Comment)
		}
		return nil
	},
}

func methodName(m uint16) string {
	switch m {
	case reader.Store:
		return "store"
	case reader.Deflate:
		return "deflate"
	default:
		return fmt.Sprintf("0x%x", m)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	addSourceFlags(listCmd)
}
