// Command sexpctl is a small CLI front end over the sexp package, useful for
// ad hoc inspection of sexp source files: parsing, canonicalizing, diffing,
// and probing the containment/hashing/index-key operators from a shell.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/sexpcore/sexp"
	"github.com/sexpcore/sexp/blob"
	"github.com/sexpcore/sexp/cache"
	"github.com/sexpcore/sexp/nav"
)

func main() {
	app := cli.NewApp()
	app.Name = "sexpctl"
	app.Usage = "inspect and query sexp values from the command line"
	app.Description = "Parses, prints, and queries values in the sexp binary/textual format."
	app.Commands = []cli.Command{
		parseCommand(),
		printCommand(),
		equalCommand(),
		containsCommand(),
		hashCommand(),
		keysCommand(),
		batchHashCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func readFileArg(c *cli.Context, i int) (string, error) {
	path := c.Args().Get(i)
	if path == "" {
		return "", fmt.Errorf("missing argument %d", i+1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func parseArg(c *cli.Context, i int) (sexp.Value, error) {
	text, err := readFileArg(c, i)
	if err != nil {
		return nil, err
	}

	return sexp.Parse(text)
}

func parseCommand() cli.Command {
	return cli.Command{
		Name:      "parse",
		Usage:     "parse a source file and write its serialized binary form to stdout",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			v, err := parseArg(c, 0)
			if err != nil {
				return err
			}

			buf, err := sexp.Write(v)
			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(buf)
			return err
		},
	}
}

func printCommand() cli.Command {
	return cli.Command{
		Name:      "print",
		Usage:     "parse a source file and print its canonical textual form",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			v, err := parseArg(c, 0)
			if err != nil {
				return err
			}

			fmt.Println(sexp.Print(v))
			return nil
		},
	}
}

func equalCommand() cli.Command {
	return cli.Command{
		Name:      "equal",
		Usage:     "report whether two source files parse to semantically equal values",
		ArgsUsage: "<file-a> <file-b>",
		Action: func(c *cli.Context) error {
			a, err := parseArg(c, 0)
			if err != nil {
				return err
			}
			b, err := parseArg(c, 1)
			if err != nil {
				return err
			}

			eq, err := sexp.Equal(a, b)
			if err != nil {
				return err
			}

			if eq {
				color.Green("equal")
			} else {
				color.Yellow("not equal")
			}

			return nil
		},
	}
}

func containsCommand() cli.Command {
	var keyBased bool

	return cli.Command{
		Name:      "contains",
		Usage:     "report whether the container source file structurally contains the needle",
		ArgsUsage: "<container-file> <needle-file>",
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:        "key",
				Usage:       "use key-based containment (@>>) instead of structural containment (@>)",
				Destination: &keyBased,
			},
		},
		Action: func(c *cli.Context) error {
			cont, err := parseArg(c, 0)
			if err != nil {
				return err
			}
			needle, err := parseArg(c, 1)
			if err != nil {
				return err
			}

			var ok bool
			if keyBased {
				ok, err = sexp.ContainsKey(cont, needle)
			} else {
				ok, err = sexp.Contains(cont, needle)
			}
			if err != nil {
				return err
			}

			if ok {
				color.Green("contains")
			} else {
				color.Yellow("does not contain")
			}

			return nil
		},
	}
}

func hashCommand() cli.Command {
	return cli.Command{
		Name:      "hash",
		Usage:     "print the 32-bit structural hash of a source file's value",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			v, err := parseArg(c, 0)
			if err != nil {
				return err
			}

			h, err := sexp.Hash(v)
			if err != nil {
				return err
			}

			fmt.Printf("%d\n", h)
			return nil
		},
	}
}

func keysCommand() cli.Command {
	var strategy string

	return cli.Command{
		Name:      "keys",
		Usage:     "extract the index key set for a source file's value",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:        "strategy",
				Usage:       "index (value-side) | contains | contains_key | contained_by",
				Value:       "index",
				Destination: &strategy,
			},
		},
		Action: func(c *cli.Context) error {
			v, err := parseArg(c, 0)
			if err != nil {
				return err
			}

			var keys []int32
			switch strategy {
			case "index":
				keys, err = sexp.ExtractIndexKeys(v)
			case "contains":
				keys, err = sexp.ExtractQueryKeys(v, sexp.StrategyContains)
			case "contains_key":
				keys, err = sexp.ExtractQueryKeys(v, sexp.StrategyContainsKey)
			case "contained_by":
				keys, err = sexp.ExtractQueryKeys(v, sexp.StrategyContainedBy)
			default:
				return fmt.Errorf("unknown strategy %q", strategy)
			}
			if err != nil {
				return err
			}

			for _, k := range keys {
				fmt.Println(k)
			}

			return nil
		},
	}
}

func batchHashCommand() cli.Command {
	return cli.Command{
		Name:      "batch-hash",
		Usage:     "open a compressed blob container and print each member's structural hash",
		ArgsUsage: "<blob-file>",
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			if path == "" {
				return fmt.Errorf("missing argument 1")
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			b, err := blob.Open(data)
			if err != nil {
				return err
			}

			// Cached per member: a blob holding thousands of small sexp
			// buffers benefits from reusing each member's opened Reader if
			// the caller later re-queries the same index.
			rc, err := cache.New(b.Len() + 1)
			if err != nil {
				return err
			}

			for i := 0; i < b.Len(); i++ {
				member, ok := b.At(i)
				if !ok {
					continue
				}

				r, err := rc.Open(strconv.Itoa(i), member)
				if err != nil {
					return err
				}

				h, err := nav.Hash(r, r.RootOffset())
				if err != nil {
					return err
				}

				fmt.Printf("%d\t%d\n", i, h)
			}

			return nil
		},
	}
}
