// The ottsav CLI inspects savegame containers and unpacks their
// decompressed body for offline analysis.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/rawbytedev/ottsav"
	"github.com/rawbytedev/ottsav/pkg/chunk"
)

func main() {
	app := &cli.App{
		Name:  "ottsav",
		Usage: "inspect and unpack savegame containers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print the header and chunk layout of a savegame",
				ArgsUsage: "<savegame>",
				Action:    runInfo,
			},
			{
				Name:      "unpack",
				Usage:     "write the decompressed body of a savegame",
				ArgsUsage: "<savegame> [output]",
				Action:    runUnpack,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func openArg(c *cli.Context) (*ottsav.Savegame, error) {
	if c.Args().Len() < 1 {
		return nil, errors.New("missing savegame path")
	}
	return ottsav.OpenFile(c.Args().Get(0))
}

func runInfo(c *cli.Context) error {
	sg, err := openArg(c)
	if err != nil {
		return err
	}
	logrus.Infof("version %d, compression %s, body %d bytes",
		sg.Version, sg.Compression, len(sg.Body))

	framer := sg.Framer()
	for {
		ch, err := framer.Next()
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, chunk.ErrUnsupportedKind) {
			// Unsupported kinds have no declared size, so the rest of the
			// stream cannot be framed past them.
			logrus.Warnf("stopping: %v", err)
			return nil
		}
		if err != nil {
			return err
		}
		line := fmt.Sprintf("chunk %s kind %s", ch.Label, ch.Kind)
		if ch.Table != nil {
			line = fmt.Sprintf("%s, %d fields, %d rows",
				line, len(ch.Table.Schema.Fields), len(ch.Table.Rows))
			for _, f := range ch.Table.Schema.Fields {
				logrus.Debugf("  field %s type %s list=%v", f.Name, f.Type, f.IsList)
			}
		}
		logrus.Info(line)
	}
}

func runUnpack(c *cli.Context) error {
	sg, err := openArg(c)
	if err != nil {
		return err
	}
	out := "output_savegame.sav"
	if c.Args().Len() > 1 {
		out = c.Args().Get(1)
	}
	if err := sg.Save(out); err != nil {
		return err
	}
	logrus.Infof("wrote %d bytes to %s", len(sg.Body), out)
	return nil
}
