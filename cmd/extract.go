package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/alec-rabold/zipindex/pkg/zipfile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var files, outFiles []string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract one or more files from a zip archive",
	Long: `Parses the archive's central directory, then decompresses only the
	members whose names match the search terms.

	ex:
	zipindex extract -i archive.zip -f plan.txt
	zipindex extract -b myBucket -k myKey -f plan.txt -o my/directory/plan.txt
	zipindex extract -i archive.zip -f plan1.txt,plan2.txt,path/to/plan3.txt,/directory
	zipindex extract -i archive.zip -f plan1.txt -o plan1.txt -f plan2.txt -o plan2.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(files) == 0 {
			cmd.Usage()
			os.Exit(1)
		}
		if len(outFiles) > 1 && (len(outFiles) != len(files)) {
			cmd.Usage()
			log.Error("error: must specify one output file for every search term")
			os.Exit(1)
		}
		buf, err := loadArchive(context.Background())
		if err != nil {
			log.Errorf("error loading archive, err: %v", err)
			return err
		}
		z, err := zipfile.NewFileExtractor(buf)
		if err != nil {
			log.Errorf("error parsing archive, err: %v", err)
			return err
		}
		records, err := z.ExtractFiles(files)
		if err != nil {
			log.Errorf("error extracting files from archive, err: %v", err)
			return err
		}
		if len(outFiles) == 0 {
			for _, v := range records.FileMap {
				for _, f := range v {
					fmt.Println(f.Contents.String())
				}
			}
			return nil
		}
		if len(outFiles) == 1 {
			for _, v := range records.FileMap {
				if err := writeFiles(outFiles[0], v); err != nil {
					return err
				}
			}
			return nil
		}
		outputMap := make(map[string]string) // searchTerm -> outputFile
		for i := range outFiles {
			outputMap[files[i]] = outFiles[i]
		}
		for searchTerm, v := range records.FileMap {
			if err := writeFiles(outputMap[searchTerm], v); err != nil {
				return err
			}
		}
		return nil
	},
}

func writeFiles(name string, files []*zipfile.File) error {
	f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Errorf("error opening file (name: %s), err: %v", name, err)
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("error closing file (name: %s), err: %v", name, err)
		}
	}()
	for _, file := range files {
		if _, err := f.Write(file.Contents.Bytes()); err != nil {
			log.Errorf("error writing to file (name: %s), err: %v", name, err)
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	addSourceFlags(extractCmd)
	extractCmd.PersistentFlags().StringSliceVarP(&outFiles, "out", "o", []string{}, "name(s) of the file(s) to write output to")
	extractCmd.PersistentFlags().StringSliceVarP(&files, "file", "f", []string{}, "(required) names of the files/paths to extract (e.g. plan.txt, /path/to/plan.txt, /directory)")
}
