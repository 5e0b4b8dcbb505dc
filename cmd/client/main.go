package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/elastic/hey-pcc/client"
	"github.com/elastic/hey-pcc/conv"
	"github.com/elastic/hey-pcc/models"
	"github.com/elastic/hey-pcc/numbers"
	"github.com/elastic/hey-pcc/out"
	"github.com/elastic/hey-pcc/strcoll"
)

var (
	chunkSize = flag.Int("chunk", client.DefaultChunkSize, "size of the chunks the file is sent in")
	timeout   = flag.Duration("timeout", 0, "deadline for the whole exchange with the server, 0 for none")
	verbose   = flag.Bool("v", false, "log a summary of the transfer")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <server IPv4> <server port> <file>\n", os.Args[0])
	flag.PrintDefaults()
}

func newInput(args []string) (models.ClientInput, error) {
	if len(args) != 3 {
		return models.ClientInput{}, errors.New("exactly 3 arguments are required: <server IPv4> <server port> <file>")
	}
	ip, err := models.ParseIPv4(args[0])
	if err != nil {
		return models.ClientInput{}, err
	}
	port, err := models.ParsePort(args[1])
	if err != nil {
		return models.ClientInput{}, err
	}
	if *chunkSize <= 0 {
		return models.ClientInput{}, errors.Errorf("chunk size must be positive, got %d", *chunkSize)
	}
	return models.ClientInput{
		ServerIP:   ip,
		ServerPort: port,
		Path:       args[2],
		ChunkSize:  *chunkSize,
		Timeout:    *timeout,
	}, nil
}

func summary(in models.ClientInput, res client.Result) string {
	metrics := strcoll.NewTuples()
	metrics.Add("file", in.Path)
	metrics.Add("server", in.Addr())
	metrics.Add("sent", conv.ByteCountDecimal(int64(res.Sent)))
	metrics.Add("printable characters", res.Printable)
	metrics.Add(" - % of sent", numbers.Perct(uint64(res.Printable), res.Sent))
	metrics.Add("elapsed", res.Elapsed)
	return metrics.Format(22)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	logger := out.NewLogger(*verbose)

	input, err := newInput(flag.Args())
	if err != nil {
		logger.Errorf("%s", err)
		usage()
		os.Exit(1)
	}

	ctx := context.Background()
	if input.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, input.Timeout+time.Second)
		defer cancel()
	}
	res, err := client.Run(ctx, input)
	if err != nil {
		logger.Errorf("%s", err)
		os.Exit(1)
	}
	fmt.Printf("# of printable characters: %d\n", res.Printable)
	logger.Debugf("transfer summary\n%s", summary(input, res))
}
