// Command hashiostore is an operator tool for inspecting and bulk-loading a
// filesystem-backed hashio store, the equivalent role the teacher's many
// cmd-*.go binaries play around its library packages.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/rpcpool/hashio/hash"
	"github.com/rpcpool/hashio/store/carexport"
	"github.com/rpcpool/hashio/store/fsstore"
)

var log = logging.Logger("hashio/cmd")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	app := &cli.App{
		Name:        "hashiostore",
		Usage:       "inspect and bulk-load a hashio content-addressed store",
		Description: "Operator CLI for the hashio filesystem backend.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base", Usage: "store base directory", Required: true},
		},
		Commands: []*cli.Command{
			cmdGet(),
			cmdPutRaw(),
			cmdStat(),
			cmdExportCAR(),
			cmdImportCAR(),
			cmdDescribe(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorw("command failed", "err", err)
		os.Exit(1)
	}
}

// correlationID tags one CLI invocation's log lines, mirroring how the
// teacher correlates long-running bulk operations across log output.
func correlationID() string {
	return uuid.New().String()
}

func openStore(c *cli.Context) (*fsstore.Store, error) {
	return fsstore.Open(c.String("base"))
}

func cmdGet() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print the raw bytes of a blob to stdout",
		ArgsUsage: "<hash-hex>",
		Action: func(c *cli.Context) error {
			cid := correlationID()
			h, err := hash.FromHex(c.Args().First())
			if err != nil {
				return err
			}
			s, err := openStore(c)
			if err != nil {
				return err
			}
			r, err := s.Open(h)
			if err != nil {
				log.Errorw("get failed", "correlation_id", cid, "hash", h.Hex(), "err", err)
				return err
			}
			defer r.Close()
			_, err = os.Stdout.ReadFrom(r)
			return err
		},
	}
}

func cmdPutRaw() *cli.Command {
	return &cli.Command{
		Name:      "put-raw",
		Usage:     "store a file's bytes as an opaque blob (smoke testing only)",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			cid := correlationID()
			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			h := hash.HashBytes(data)
			s, err := openStore(c)
			if err != nil {
				return err
			}
			exists, err := s.Exists(h)
			if err != nil {
				return err
			}
			if exists {
				log.Infow("blob already present", "correlation_id", cid, "hash", h.Hex())
				fmt.Println(h.Hex())
				return nil
			}
			w, err := s.Create(h)
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				_ = w.Abort()
				return err
			}
			if err := w.Commit(); err != nil {
				return err
			}
			fmt.Println(h.Hex())
			return nil
		},
	}
}

func cmdStat() *cli.Command {
	return &cli.Command{
		Name:  "stat",
		Usage: "print approximate storage size",
		Action: func(c *cli.Context) error {
			s, err := openStore(c)
			if err != nil {
				return err
			}
			size, err := s.StorageSize()
			if err != nil {
				return err
			}
			fmt.Printf("storage size: %s\n", humanize.Bytes(uint64(size)))
			return nil
		},
	}
}

func cmdExportCAR() *cli.Command {
	return &cli.Command{
		Name:      "export-car",
		Usage:     "snapshot a closed set of reachable blobs into a CAR v1 file",
		ArgsUsage: "<out.car> <hash-hex>...",
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 2 {
				return fmt.Errorf("hashiostore: export-car requires an output path and at least one hash")
			}
			out := c.Args().First()
			var roots []hash.Hash32
			for _, a := range c.Args().Slice()[1:] {
				h, err := hash.FromHex(a)
				if err != nil {
					return err
				}
				roots = append(roots, h)
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}

			hashes, err := carexport.CollectReachableHashes(s, roots)
			if err != nil {
				return fmt.Errorf("hashiostore: compute reachable set: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			bar := mpb.New()
			section := bar.New(int64(len(hashes)), mpb.BarStyle(),
				mpb.PrependDecorators(decor.Name("export-car")),
				mpb.AppendDecorators(decor.CountersNoUnit("%d / %d")))

			return carexport.Export(f, s, hashes, roots, func(hash.Hash32) { section.Increment() })
		},
	}
}

func cmdImportCAR() *cli.Command {
	return &cli.Command{
		Name:      "import-car",
		Usage:     "replay a CAR v1 file's sections into the store",
		ArgsUsage: "<in.car>",
		Action: func(c *cli.Context) error {
			cid := correlationID()
			s, err := openStore(c)
			if err != nil {
				return err
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()

			imported, err := carexport.Import(f, s)
			if err != nil {
				return err
			}
			log.Infow("import complete", "correlation_id", cid, "count", len(imported))
			summary, _ := json.MarshalIndent(map[string]int{"imported": len(imported)}, "", "  ")
			fmt.Println(string(summary))
			return nil
		},
	}
}

type blobDescription struct {
	Hash         string `json:"hash"`
	SizeBytes    int    `json:"size_bytes"`
	UnsafeLoader bool   `json:"unsafe_loader"`
	Version      uint32 `json:"version,omitempty"`
	TypeHash     string `json:"type_hash,omitempty"`
}

// cmdDescribe prints a blob's envelope metadata without decoding its
// payload: a generic record type can only be decoded by the concrete Go
// type that declared it, which this operator tool does not link against,
// so describe reports only what every blob self-describes.
func cmdDescribe() *cli.Command {
	return &cli.Command{
		Name:      "describe",
		Usage:     "print a blob's envelope metadata as JSON",
		ArgsUsage: "<hash-hex>",
		Action: func(c *cli.Context) error {
			h, err := hash.FromHex(c.Args().First())
			if err != nil {
				return err
			}
			s, err := openStore(c)
			if err != nil {
				return err
			}
			r, err := s.Open(h)
			if err != nil {
				return err
			}
			defer r.Close()
			data, err := io.ReadAll(r)
			if err != nil {
				return err
			}

			desc := blobDescription{Hash: h.Hex(), SizeBytes: len(data)}
			if len(data) >= 4+hash.Size {
				desc.Version = binary.BigEndian.Uint32(data[:4])
				desc.TypeHash = hash.Hash32(data[4 : 4+hash.Size]).Hex()
			} else {
				desc.UnsafeLoader = true
			}

			out, err := json.MarshalIndent(desc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
