// Command grfcat inspects and extracts files from a GRF archive.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/icza/grf"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "list":
		err = runList(args)
	case "cat":
		err = runCat(args)
	case "stat":
		err = runStat(args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "grfcat:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: grfcat <list|cat|stat> [flags] <archive.grf> [name]")
}

func openArchive(path string, encoding string) (*grf.Archive, error) {
	opts := []grf.Option{}
	switch encoding {
	case "utf-8":
		opts = append(opts, grf.WithFilenameEncoding(grf.EncodingUTF8))
	case "cp949":
		opts = append(opts, grf.WithFilenameEncoding(grf.EncodingCP949))
	case "euc-kr":
		opts = append(opts, grf.WithFilenameEncoding(grf.EncodingEUCKR))
	case "latin-1":
		opts = append(opts, grf.WithFilenameEncoding(grf.EncodingLatin1))
	case "", "auto":
	default:
		return nil, fmt.Errorf("unknown --encoding %q", encoding)
	}
	a, err := grf.Open(context.Background(), path, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.Load(context.Background()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func runList(args []string) error {
	fs := pflag.NewFlagSet("list", pflag.ExitOnError)
	ext := fs.StringP("ext", "e", "", "filter by extension")
	encoding := fs.String("encoding", "", "filename encoding: auto, utf-8, cp949, euc-kr, latin-1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("list requires an archive path")
	}

	a, err := openArchive(fs.Arg(0), *encoding)
	if err != nil {
		return err
	}
	defer a.Close()

	var names []string
	if *ext != "" {
		names = a.GetFilesByExtension(*ext)
	} else {
		names = a.ListFiles()
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func runCat(args []string) error {
	fs := pflag.NewFlagSet("cat", pflag.ExitOnError)
	encoding := fs.String("encoding", "", "filename encoding: auto, utf-8, cp949, euc-kr, latin-1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("cat requires an archive path and a file name")
	}

	a, err := openArchive(fs.Arg(0), *encoding)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := a.GetFile(context.Background(), fs.Arg(1))
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runStat(args []string) error {
	fs := pflag.NewFlagSet("stat", pflag.ExitOnError)
	encoding := fs.String("encoding", "", "filename encoding: auto, utf-8, cp949, euc-kr, latin-1")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("stat requires an archive path")
	}

	a, err := openArchive(fs.Arg(0), *encoding)
	if err != nil {
		return err
	}
	defer a.Close()

	if fs.NArg() >= 2 {
		info, err := a.GetEntry(fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Printf("name: %s\ncompressed_size: %d\nreal_size: %d\nencrypted: %t\n",
			info.Name, info.CompressedSize, info.RealSize, info.Encrypted)
		return nil
	}

	s := a.GetStats()
	fmt.Printf("file_count: %d\ntotal_entries: %d\nskipped_oversize: %d\nskipped_directory: %d\nambiguous_names: %d\ndetected_encoding: %s\n",
		s.FileCount, s.TotalEntries, s.SkippedOversize, s.SkippedDirectory, s.AmbiguousNames, s.DetectedEncoding)
	return nil
}
