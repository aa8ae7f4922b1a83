package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"yardsale-board/internal/application/board"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: boardctl <command> [flags]

commands:
  list      show active listings (-q, -category, -date, -json)
  create    post a listing and print the refreshed board
  feature   start a featured checkout for -id and print the payment URL
  sponsor   start a sponsor subscription checkout and print the payment URL`

var errUsage = errors.New(usage)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("boardctl")
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		return runList(ctx, args[1:], out)
	case "create":
		return runCreate(ctx, args[1:], out)
	case "feature":
		return runFeature(ctx, args[1:], out)
	case "sponsor":
		return runSponsor(ctx, args[1:], out)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// newFlagSet registers -api, defaulting to $BOARD_API.
func newFlagSet(name string) (*flag.FlagSet, *string) {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(io.Discard)
	def := os.Getenv("BOARD_API")
	if def == "" {
		def = "http://localhost:8080/api"
	}
	api := set.String("api", def, "Base URL of the board API")
	return set, api
}

func runList(ctx context.Context, args []string, out io.Writer) error {
	set, api := newFlagSet("list")
	var f board.Filter
	set.StringVar(&f.Query, "q", "", "Text to look for in title and description")
	set.StringVar(&f.Category, "category", "", "Exact category")
	set.StringVar(&f.Date, "date", "", "Exact sale date (YYYY-MM-DD)")
	asJSON := set.Bool("json", false, "Print the view as JSON")
	if err := set.Parse(args); err != nil {
		return err
	}

	snap, err := board.Load(ctx, board.NewClient(*api))
	if err != nil {
		return fmt.Errorf("load listings: %w", err)
	}
	return printView(out, snap.View(f, board.ViewOptions{}), *asJSON)
}

func runCreate(ctx context.Context, args []string, out io.Writer) error {
	set, api := newFlagSet("create")
	var req board.CreateListingRequest
	set.StringVar(&req.Title, "title", "", "Listing title")
	set.StringVar(&req.Description, "description", "", "Description")
	set.StringVar(&req.Category, "category", "Garage Sale", "Category")
	set.StringVar(&req.Date, "date", "", "Sale date (YYYY-MM-DD)")
	set.StringVar(&req.TimeStart, "start", "", "Start time (HH:MM)")
	set.StringVar(&req.TimeEnd, "end", "", "End time (HH:MM)")
	set.StringVar(&req.Address, "address", "", "Street address")
	set.StringVar(&req.Contact, "contact", "", "Contact details")
	set.StringVar(&req.PhotoURL, "photo", "", "Photo URL")
	lat := set.Float64("lat", 0, "Latitude")
	lng := set.Float64("lng", 0, "Longitude")
	if err := set.Parse(args); err != nil {
		return err
	}
	set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "lat":
			req.Lat = lat
		case "lng":
			req.Lng = lng
		}
	})

	id, snap, err := board.CreateAndReload(ctx, board.NewClient(*api), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created %s\n", id)
	return printView(out, snap.View(board.Filter{}, board.ViewOptions{}), false)
}

func runFeature(ctx context.Context, args []string, out io.Writer) error {
	set, api := newFlagSet("feature")
	id := set.String("id", "", "Listing id")
	amount := set.Int64("amount", 0, "Amount in cents; 0 uses the server's price")
	if err := set.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("feature: -id is required")
	}
	url, err := board.NewClient(*api).StartFeatureCheckout(ctx, *id, *amount)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, url)
	return nil
}

func runSponsor(ctx context.Context, args []string, out io.Writer) error {
	set, api := newFlagSet("sponsor")
	if err := set.Parse(args); err != nil {
		return err
	}
	url, err := board.NewClient(*api).StartSponsorCheckout(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, url)
	return nil
}

func printView(out io.Writer, v board.View, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range v.Cards {
		mark := " "
		if c.Featured {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", mark, c.Title, c.DateLine, c.Category, c.Address, c.ID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d of %d listings\n", len(v.Cards), v.Total)
	return err
}
