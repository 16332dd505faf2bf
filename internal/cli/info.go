package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zrdimetc/go-audiostream/asf"
	"github.com/zrdimetc/go-audiostream/audio"
	"github.com/zrdimetc/go-audiostream/wav"
)

var infoFormat string

var InfoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print the stream header of a WAV or ASF file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd.OutOrStdout(), args[0], infoFormat)
	},
}

type infoReport struct {
	Container container   `yaml:"container"`
	WAV       *wav.Header `yaml:"wav,omitempty"`
	ASF       *asf.Header `yaml:"asf,omitempty"`
}

func runInfo(w io.Writer, path, format string) error {
	f, kind, err := openFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report := infoReport{Container: kind}
	switch kind {
	case containerWAV:
		report.WAV, err = wav.ReadHeader(f, wav.WithLogger(logger))
	case containerASF:
		report.ASF, err = asf.ReadHeader(f, asf.WithLogger(logger))
	}
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(report)
	case "text", "":
		return writeInfoText(w, report)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeInfoText(w io.Writer, r infoReport) error {
	var f audio.Format
	var length audio.Timestamp
	switch {
	case r.WAV != nil:
		f = r.WAV.Format
		frameSize := int64(r.WAV.Flags.BytesPerSample() * r.WAV.Channels())
		if f.Compression == audio.CompressionPCM && frameSize > 0 {
			length = audio.FrameTimestamp(r.WAV.Size/frameSize, int(f.SampleRate))
		}
	case r.ASF != nil:
		f = r.ASF.Format
		length = audio.NewTimestamp(int64(r.ASF.SendDuration/10000), int(f.SampleRate))
	}
	_, err := fmt.Fprintf(w, "container:   %s\ncompression: %s\nchannels:    %d\nrate:        %d Hz\nbits:        %d\nblock align: %d\n",
		r.Container, f.Compression, f.Channels, f.SampleRate, f.BitsPerSample, f.BlockAlign)
	if err != nil {
		return err
	}
	if length.Rate() != 0 {
		_, err = fmt.Fprintf(w, "length:      %s\n", length.Duration())
	}
	return err
}

func init() {
	RootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().StringVarP(&infoFormat, "format", "f", "text", "output format: text or yaml")
}
