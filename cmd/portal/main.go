// Command portal is a demo driver for the land-records authorization core:
// it restores or establishes a session, then prints what the signed-in role
// may see — visible navigation, owned parcels, and the dashboard summary.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/thedevz43/landrecords/internal/config"
	"github.com/thedevz43/landrecords/internal/format"
	"github.com/thedevz43/landrecords/land"
	"github.com/thedevz43/landrecords/policy"
	"github.com/thedevz43/landrecords/session"
	"github.com/thedevz43/landrecords/session/snapshot"
	"github.com/thedevz43/landrecords/users"
	"github.com/thedevz43/landrecords/users/demodirectory"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running portal: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	var (
		dataFolder = pflag.String("data", c.GetDataFolder(), "folder for the session database")
		email      = pflag.String("email", "rajesh.kumar@example.com", "email to sign in with")
		secret     = pflag.String("secret", demodirectory.DemoSecret, "secret to sign in with")
		logout     = pflag.Bool("logout", false, "sign out and clear the persisted session")
	)
	pflag.Parse()

	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if err := os.MkdirAll(*dataFolder, 0o755); err != nil {
		return fmt.Errorf("creating data folder: %w", err)
	}
	snapshots, err := snapshot.OpenSQLite(filepath.Join(*dataFolder, "session.db"))
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer snapshots.Close()

	codec, err := snapshot.NewCodec(c.GetSnapshotSigningKey())
	if err != nil {
		return err
	}
	directory, err := demodirectory.New(demodirectory.WithLatency(c.GetDirectoryLatency()))
	if err != nil {
		return err
	}
	store, err := session.New(
		session.Repos{Directory: directory, Snapshots: snapshots},
		codec,
		session.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store.Initialize(ctx)

	if *logout {
		store.SignOut()
		fmt.Println("Signed out.")
		return nil
	}

	if !store.IsAuthenticated() {
		result := store.SignIn(ctx, *email, *secret)
		if !result.OK {
			fmt.Println(result.Reason)
			return nil
		}
	}

	current, _ := store.Current()
	fmt.Printf("\nSigned in as %s (%s)\n", current.Name, current.Role)

	pol := policy.Default()
	fmt.Println("\nNavigation:")
	for entry := range pol.VisibleEntries(current.Role) {
		fmt.Printf("  %-22s %s\n", entry.Label, entry.Route)
	}

	state := pol.EvaluateRoute("/dashboard", store.IsLoading(), &current)
	fmt.Printf("\nRoute /dashboard: %s\n", state)

	registry := land.NewDemoRegistry()
	book := land.NewDemoMutationBook()

	if current.Role == users.RoleCitizen {
		fmt.Println("\nMy land parcels:")
		for _, record := range registry.ByOwner(ctx, current.ID) {
			fmt.Printf("  Survey %-8s %s, %s  %.1f acres  tax due %s\n",
				format.SurveyNumber(record.SurveyNumber, record.SubDivision),
				record.Taluk, record.District, record.AreaAcres,
				format.INR(record.TaxDueRupees))
		}
		fmt.Println("\nMy mutation applications:")
		for _, app := range book.ByApplicant(ctx, current.ID) {
			fmt.Printf("  %s  %s  filed %s  [%s]\n",
				app.ID, app.RecordID, format.IndianDate(app.AppliedAt), app.Status)
		}
	}

	summary, err := land.Summarize(ctx, current, registry, book, directory)
	if err != nil {
		return err
	}
	fmt.Printf("\nDashboard: %+v\n", summary)
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
