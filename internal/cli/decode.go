package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zrdimetc/go-audiostream/asf"
	"github.com/zrdimetc/go-audiostream/audio"
	"github.com/zrdimetc/go-audiostream/wav"
)

var decodeOutput string

var DecodeCmd = &cobra.Command{
	Use:   "decode FILE",
	Short: "Decode a file to 16-bit PCM WAV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if decodeOutput == "" {
			return errors.New("--output is required")
		}
		return runDecode(args[0], decodeOutput)
	},
}

func runDecode(in, out string) error {
	f, kind, err := openFile(in)
	if err != nil {
		return err
	}

	var s audio.SeekableStream
	switch kind {
	case containerWAV:
		s, err = wav.MakeStream(f, true, wav.WithLogger(logger))
	case containerASF:
		s, err = asf.NewStream(f, true, asf.WithLogger(logger))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	defer s.Close()

	o, err := os.Create(out)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(o)
	n, err := wav.EncodeStream(bw, s)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := o.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Info("decoded",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("samples", n))
	return nil
}

func init() {
	RootCmd.AddCommand(DecodeCmd)
	DecodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "output WAV file")
}
