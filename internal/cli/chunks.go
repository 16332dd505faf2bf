package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zrdimetc/go-audiostream/wav"
)

var ChunksCmd = &cobra.Command{
	Use:   "chunks FILE",
	Short: "List the chunks of a RIFF file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChunks(cmd.OutOrStdout(), args[0])
	},
}

func runChunks(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := wav.NewReader(f)
	fileType, err := r.FileType()
	if err != nil {
		return err
	}
	chunks, err := r.Chunks()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "RIFF %s\n", fileType)
	for _, c := range chunks {
		fmt.Fprintf(w, "  %-4s %10d\n", c.ID, c.Size)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(ChunksCmd)
}
