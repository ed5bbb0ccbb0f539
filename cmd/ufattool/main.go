package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/friesendrywall/ufat-go/internal/blockdev"
	"github.com/friesendrywall/ufat-go/internal/ufat"
	"github.com/friesendrywall/ufat-go/internal/version"
)

func main() {
	var (
		image        string
		sectors      uint32
		sectorSize   uint32
		tableSectors uint32
		addressStart uint32
		checkCRC     bool
		showVersion  bool
	)
	pflag.StringVar(&image, "image", "ufat.img", "path to the flat image file backing the volume")
	pflag.Uint32Var(&sectors, "sectors", 512, "total sector count, including the reserved table region")
	pflag.Uint32Var(&sectorSize, "sector-size", 512, "bytes per sector")
	// Default table-sectors leaves each table region 4 + 2*sectors bytes:
	// the non-aliased CRC prefix plus the descriptor array. One sector
	// isn't enough at the default 512 sectors/512-byte geometry; three
	// is (1536 bytes against 1028 required).
	pflag.Uint32Var(&tableSectors, "table-sectors", 3, "sectors per allocation table copy")
	pflag.Uint32Var(&addressStart, "address-start", 0, "byte offset of the volume within the image file")
	pflag.BoolVar(&checkCRC, "check-crc", false, "verify each file's payload CRC on read")
	pflag.BoolVar(&showVersion, "version", false, "print version information and exit")
	pflag.Parse()

	if showVersion {
		fmt.Println(version.Get().String())
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}

	cfg := ufat.Config{
		AddressStart: addressStart,
		Sectors:      sectors,
		SectorSize:   sectorSize,
		TableSectors: tableSectors,
		CheckFileCRC: checkCRC,
	}
	imageSize := int64(addressStart) + int64(sectors)*int64(sectorSize)

	cmd := strings.ToLower(args[0])

	if cmd == "format" {
		dev, err := blockdev.OpenFileDevice(image, imageSize)
		must(err)
		defer dev.Close()
		cfg.Device = dev
		fs, err := ufat.New(cfg)
		must(err)
		must(fs.Format())
		fmt.Println("formatted", image)
		return
	}

	dev, err := blockdev.OpenFileDevice(image, imageSize)
	must(err)
	defer dev.Close()
	cfg.Device = dev
	fs, err := ufat.New(cfg)
	must(err)
	must(fs.Mount())

	switch cmd {
	case "mount-check":
		fmt.Println("mount ok")
	case "put":
		if len(args) < 3 {
			fmt.Println("put <name> <file>")
			os.Exit(2)
		}
		data, err := os.ReadFile(args[2])
		must(err)
		h, err := fs.Open(args[1], "w")
		must(err)
		_, err = h.Write(data)
		if err != nil {
			_ = h.Close()
			must(err)
		}
		must(h.Close())
		fmt.Printf("wrote %d bytes to %s\n", len(data), args[1])
	case "get":
		if len(args) < 3 {
			fmt.Println("get <name> <file>")
			os.Exit(2)
		}
		h, err := fs.Open(args[1], "r")
		must(err)
		defer h.Close()
		data := make([]byte, h.Len())
		_, err = io.ReadFull(h, data)
		must(err)
		must(os.WriteFile(args[2], data, 0o644))
		fmt.Printf("read %d bytes from %s\n", len(data), args[1])
	case "rm":
		if len(args) < 2 {
			fmt.Println("rm <name>")
			os.Exit(2)
		}
		must(fs.Remove(args[1]))
		fmt.Println("removed", args[1])
	case "ls":
		printListing(fs)
	case "info":
		printInfo(fs)
	default:
		fmt.Printf("unknown command: %s\n", cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("Usage: ufattool [flags] <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  format")
	fmt.Println("  mount-check")
	fmt.Println("  put <name> <file>")
	fmt.Println("  get <name> <file>")
	fmt.Println("  rm <name>")
	fmt.Println("  ls")
	fmt.Println("  info")
	pflag.PrintDefaults()
}

func printListing(fs *ufat.FS) {
	info, err := fs.Info()
	must(err)
	for _, f := range info.Files {
		ts := time.Unix(int64(f.Timestamp), 0).UTC().Format("2006-01-02 15:04:05")
		fmt.Printf("%-20s %10d  %s\n", f.Name, f.Len, ts)
	}
}

func printInfo(fs *ufat.FS) {
	info, err := fs.Info()
	must(err)
	fmt.Printf("capacity:   %d bytes\n", info.Capacity)
	fmt.Printf("used:       %d bytes\n", info.BytesUsed)
	fmt.Printf("free:       %d bytes\n", info.BytesFree)
	fmt.Printf("file count: %d\n", len(info.Files))
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "ufattool:", err)
		os.Exit(1)
	}
}
