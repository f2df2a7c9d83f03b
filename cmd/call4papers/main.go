package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"call4papers/internal/app"
	"call4papers/internal/conference"
	"call4papers/internal/config"
)

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

func main() {
	cfg := config.Load()

	var (
		keywords   listFlag
		nokeywords listFlag
		whitelist  listFlag
		blacklist  listFlag
		ratings    listFlag
	)
	setup := flag.String("setup", "", "named filter bundle (see -list-setups)")
	listSetups := flag.Bool("list-setups", false, "print available setups and exit")
	flag.Var(&keywords, "keywords", "comma-separated title keywords to keep")
	flag.Var(&nokeywords, "nokeywords", "comma-separated title keywords to drop")
	flag.Var(&whitelist, "whitelist", "acronyms always kept")
	flag.Var(&blacklist, "blacklist", "acronyms always dropped, or \"all\"")
	flag.Var(&ratings, "ratings", "accepted ranks in either scheme (A*, A, 1, 2, ...)")
	refSource := flag.String("ref-source", "core", "join reference: core, ggs or all")
	output := flag.String("output", "report.csv", "report file path")
	force := flag.Bool("force-download", false, "bypass the scrape cache")
	ignoreWikiCFP := flag.Bool("ignore-wikicfp", false, "skip deadline lookups")
	ignoreGGS := flag.Bool("ignore-ggs", false, "skip the GGS rating source")
	onlyNextYear := flag.Bool("only-next-year", false, "resolve next year's editions only")
	inTime := flag.Bool("in-time", false, "mark past deadlines as DUE")
	sortByRating := flag.Bool("sort-by-rating", false, "order the report by rank score")
	showExtra := flag.Bool("show-extra", false, "include source-specific extra columns")
	noProgress := flag.Bool("no-progress", false, "disable the progress bar")
	flag.Parse()

	setups, err := config.LoadSetups(cfg.SetupsPath)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	if *listSetups {
		fmt.Println(strings.Join(config.SetupNames(setups), "\n"))
		return
	}

	spec := conference.FilterSpec{
		Keywords:   keywords,
		NoKeywords: nokeywords,
		Whitelist:  whitelist,
		Blacklist:  blacklist,
		Ratings:    ratings,
	}
	if *setup != "" {
		bundle, ok := setups[*setup]
		if !ok {
			log.Fatalf("init: unknown setup %q (have: %s)", *setup, strings.Join(config.SetupNames(setups), ", "))
		}
		// Explicit list flags override the bundle field-by-field.
		base := bundle.FilterSpec()
		if spec.Keywords == nil {
			spec.Keywords = base.Keywords
		}
		if spec.NoKeywords == nil {
			spec.NoKeywords = base.NoKeywords
		}
		if spec.Whitelist == nil {
			spec.Whitelist = base.Whitelist
		}
		if spec.Blacklist == nil {
			spec.Blacklist = base.Blacklist
		}
		if spec.Ratings == nil {
			spec.Ratings = base.Ratings
		}
	}

	ref, err := conference.ParseRefSource(*refSource)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	application, err := app.New(cfg, app.Options{
		Filter:        spec,
		RefSource:     ref,
		Output:        *output,
		ForceDownload: *force,
		IgnoreWikiCFP: *ignoreWikiCFP,
		IgnoreGGS:     *ignoreGGS,
		OnlyNextYear:  *onlyNextYear,
		InTime:        *inTime,
		SortByRating:  *sortByRating,
		ShowExtra:     *showExtra,
		Progress:      !*noProgress && isTerminal(),
	})
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	if err := application.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func isTerminal() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
