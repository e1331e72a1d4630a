package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/watchface"
	"github.com/bodgit/watchface/face"
	"github.com/bodgit/watchface/manifest"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const defaultDB = "watchface.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var fileTypeFlag = &cli.StringFlag{
	Name:    "file-type",
	Aliases: []string{"t"},
	EnvVars: []string{"WATCHFACE_FILE_TYPE"},
	Usage:   "face file type, A, B or C, detected if not set",
}

var manifestFormatFlag = &cli.StringFlag{
	Name:  "manifest-format",
	Value: manifest.Text.String(),
	Usage: "manifest format, text or yaml",
}

func fileType(c *cli.Context) (face.Kind, error) {
	if s := c.String("file-type"); s != "" {
		return face.ParseKind(s)
	}
	return 0, nil
}

func newTool(c *cli.Context, catalog bool) (*watchface.Tool, func(), error) {
	logger := log.New(os.Stderr, "", 0)

	var db *watchface.FaceDB
	if catalog {
		var err error
		if db, err = watchface.NewFaceDB(c.String("db")); err != nil {
			return nil, nil, err
		}
	}

	t := watchface.New(db, os.Stdout, logger)
	t.SetVerbose(c.Bool("verbose"))

	return t, func() {
		if db != nil {
			db.Close()
		}
	}, nil
}

// Older "key=value" options accepted after each command, mapped to flag
// names. An empty flag name makes the value a positional argument.
var legacyOptions = map[string]map[string]string{
	"info": {
		"fileType": "file-type",
	},
	"dump": {
		"folder":   "folder",
		"raw":      "raw",
		"fileType": "file-type",
	},
	"create": {
		"folder":   "",
		"fileType": "file-type",
	},
}

// rewriteArgs turns legacy options into flags placed before any positional
// arguments.
func rewriteArgs(args []string) []string {
	cmd := -1
	for i := 1; i < len(args); i++ {
		if args[i] == "--db" || args[i] == "-db" {
			i++
			continue
		}
		if !strings.HasPrefix(args[i], "-") {
			cmd = i
			break
		}
	}
	if cmd < 0 {
		return args
	}
	options, ok := legacyOptions[args[cmd]]
	if !ok {
		return args
	}

	var flags, rest []string
	for _, arg := range args[cmd+1:] {
		if kv := strings.SplitN(arg, "=", 2); len(kv) == 2 {
			if name, ok := options[kv[0]]; ok {
				if name == "" {
					rest = append(rest, kv[1])
				} else {
					flags = append(flags, "--"+name+"="+kv[1])
				}
				continue
			}
		}
		rest = append(rest, arg)
	}

	out := make([]string, 0, len(args))
	out = append(out, args[:cmd+1]...)
	out = append(out, flags...)
	return append(out, rest...)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal(err)
	}

	app := cli.NewApp()

	app.Name = "watchface"
	app.Usage = "MO YOUNG / DA FIT watch face utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"WATCHFACE_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Show the header of a face file",
			ArgsUsage: "FILE",
			Flags:     []cli.Flag{fileTypeFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				k, err := fileType(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				t, done, err := newTool(c, false)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := t.Info(c.Args().First(), k); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "dump",
			Usage:     "Dump the bitmaps and manifest of a face file into a folder",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				fileTypeFlag,
				manifestFormatFlag,
				&cli.StringFlag{
					Name:    "folder",
					Aliases: []string{"f"},
					EnvVars: []string{"WATCHFACE_FOLDER"},
					Usage:   "folder to dump into, defaults to the face number",
				},
				&cli.BoolFlag{
					Name:  "raw",
					Usage: "also dump each blob as stored",
				},
				&cli.IntFlag{
					Name:  "bpp",
					Value: 16,
					Usage: "bits per pixel of the bitmaps, 16 or 24",
				},
				&cli.BoolFlag{
					Name:  "gif",
					Usage: "also write slots with multiple frames as animated GIFs",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				k, err := fileType(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				format, err := manifest.ParseFormat(c.String("manifest-format"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				t, done, err := newTool(c, false)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := t.Dump(c.Args().First(), watchface.DumpOptions{
					Folder:       c.String("folder"),
					Kind:         k,
					Raw:          c.Bool("raw"),
					BitsPerPixel: c.Int("bpp"),
					Format:       format,
					GIF:          c.Bool("gif"),
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "create",
			Usage:     "Create a face file from a dumped folder",
			ArgsUsage: "FOLDER",
			Flags: []cli.Flag{
				fileTypeFlag,
				manifestFormatFlag,
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "face file to write, defaults to the folder name with a .bin extension",
				},
				&cli.BoolFlag{
					Name:  "thumbnail",
					Usage: "generate a missing face selection preview from the background",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				k, err := fileType(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				format, err := manifest.ParseFormat(c.String("manifest-format"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				t, done, err := newTool(c, false)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := t.Create(watchface.CreateOptions{
					Folder:    c.Args().First(),
					Output:    c.String("output"),
					Kind:      k,
					Format:    format,
					Thumbnail: c.Bool("thumbnail"),
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:    "print-types",
			Aliases: []string{"print_types"},
			Usage:   "List the known slot types and screens",
			Action: func(c *cli.Context) error {
				t, done, err := newTool(c, false)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := t.PrintTypes(); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem and record face files in the catalog",
			ArgsUsage: "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				t, done, err := newTool(c, true)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := t.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "lookup",
			Usage:     "Find face files in the catalog by face number or SHA1",
			ArgsUsage: "NUMBER|SHA1",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "thumbnails",
					Usage: "folder to write the thumbnail of each match into",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				t, done, err := newTool(c, true)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := t.Lookup(c.Args().First(), c.String("thumbnails")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(rewriteArgs(os.Args)); err != nil {
		log.Fatal(err)
	}
}
