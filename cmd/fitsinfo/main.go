// Prints the structure of FITS files
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-fits/fits"
	"github.com/robert-malhotra/go-fits/internal/config"
	"github.com/robert-malhotra/go-fits/internal/logging"
)

type fileInfo struct {
	Path string    `yaml:"path"`
	HDUs []hduInfo `yaml:"hdus"`
}

type hduInfo struct {
	Index    int          `yaml:"index"`
	Name     string       `yaml:"name,omitempty"`
	Version  int          `yaml:"version,omitempty"`
	Type     string       `yaml:"type"`
	DataSize int64        `yaml:"data_size"`
	Shape    []int64      `yaml:"shape,omitempty"`
	Pixel    string       `yaml:"pixel_type,omitempty"`
	Rows     int64        `yaml:"rows,omitempty"`
	Columns  []columnInfo `yaml:"columns,omitempty"`
	Keywords []string     `yaml:"keywords,omitempty"`
}

type columnInfo struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Repeat int64  `yaml:"repeat"`
	Unit   string `yaml:"unit,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("fitsinfo", flag.ContinueOnError)
	flags.SetOutput(stderr)
	format := flags.String("format", "text", "output format: text or yaml")
	keywords := flags.Bool("keywords", false, "list the user keywords of each HDU")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(stderr, "Usage: fitsinfo [-format text|yaml] [-keywords] <file.fits>...")
		return 2
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 2
	}
	logger := logging.Setup(stderr, cfg.LogLevel, cfg.LogFormat)

	status := 0
	for _, path := range flags.Args() {
		info, err := readStructure(path, *keywords, logging.WithFile(logger, path))
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: %s: %v\n", path, err)
			status = 1
			continue
		}
		switch *format {
		case "yaml":
			err = writeYAML(stdout, info)
		default:
			writeText(stdout, info)
		}
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: %s: %v\n", path, err)
			status = 1
		}
	}
	return status
}

func readStructure(path string, keywords bool, logger *slog.Logger) (*fileInfo, error) {
	f, err := fits.Open(path, fits.Read, fits.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info := &fileInfo{Path: path}
	err = f.Walk(func(hdu *fits.HDU) error {
		h, err := describeHDU(hdu, keywords)
		if err != nil {
			return fmt.Errorf("HDU #%d: %w", hdu.Index(), err)
		}
		info.HDUs = append(info.HDUs, h)
		return nil
	})
	return info, err
}

func describeHDU(hdu *fits.HDU, keywords bool) (hduInfo, error) {
	info := hduInfo{Index: hdu.Index(), Type: hdu.Type().String()}
	var err error
	if info.Name, err = hdu.Name(); err != nil {
		return info, err
	}
	if info.Name != "" {
		if info.Version, err = hdu.Version(); err != nil {
			return info, err
		}
	}
	if info.DataSize, err = hdu.ReadDataSize(); err != nil {
		return info, err
	}
	if keywords {
		if info.Keywords, err = hdu.Header().ReadKeywords(fits.User); err != nil {
			return info, err
		}
	}

	switch hdu.Type() {
	case fits.ImageHDU:
		img := hdu.Image()
		shape, err := img.ReadShape()
		if err != nil {
			return info, err
		}
		info.Shape = shape
		if shape.Rank() > 0 {
			code, err := img.ReadTypeCode()
			if err != nil {
				return info, err
			}
			info.Pixel = code.Name()
		}
	case fits.BintableHDU:
		cols := hdu.Columns()
		if info.Rows, err = cols.ReadRowCount(); err != nil {
			return info, err
		}
		names, err := cols.ReadAllNames()
		if err != nil {
			return info, err
		}
		for _, name := range names {
			c, err := cols.ReadInfo(name)
			if err != nil {
				return info, err
			}
			code, err := cols.ReadTypeCode(name)
			if err != nil {
				return info, err
			}
			info.Columns = append(info.Columns, columnInfo{Name: c.Name, Type: code.Name(), Repeat: c.RepeatCount, Unit: c.Unit})
		}
	}
	return info, nil
}

func writeText(w io.Writer, info *fileInfo) {
	fmt.Fprintf(w, "=== %s ===\n", info.Path)
	for _, h := range info.HDUs {
		name := h.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "HDU #%d %s [%s]\n", h.Index, name, h.Type)
		if h.Version > 1 {
			fmt.Fprintf(w, "  Version: %d\n", h.Version)
		}
		fmt.Fprintf(w, "  Data size: %d bytes\n", h.DataSize)
		if len(h.Shape) > 0 {
			fmt.Fprintf(w, "  Shape: %v %s\n", h.Shape, h.Pixel)
		}
		if h.Type == fits.BintableHDU.String() {
			fmt.Fprintf(w, "  Rows: %d\n", h.Rows)
		}
		for _, c := range h.Columns {
			fmt.Fprintf(w, "  Column %q: %d x %s", c.Name, c.Repeat, c.Type)
			if c.Unit != "" {
				fmt.Fprintf(w, " [%s]", c.Unit)
			}
			fmt.Fprintln(w)
		}
		if len(h.Keywords) > 0 {
			fmt.Fprintf(w, "  Keywords: %v\n", h.Keywords)
		}
	}
}

func writeYAML(w io.Writer, info *fileInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return err
	}
	return enc.Close()
}
