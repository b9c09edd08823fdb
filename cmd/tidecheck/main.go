// Command tidecheck prints predicted tide events for a coordinate, for
// eyeballing a deployment's constituent data without running the server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mondosurf/tide-api/internal/adapter/store/fes"
	"github.com/mondosurf/tide-api/internal/adapter/tz"
	"github.com/mondosurf/tide-api/internal/usecase"
)

func main() {
	lat := flag.Float64("lat", 34.03, "latitude")
	lon := flag.Float64("lon", -118.68, "longitude")
	days := flag.Int("days", 3, "prediction window in days")
	datum := flag.String("datum", "msl", "vertical datum (msl, mllw, lat)")
	date := flag.String("date", "", "start date YYYY-MM-DD (default: today)")
	dataDir := flag.String("data", "./data/fes2022", "FES2022 data directory")
	flag.Parse()

	d, err := usecase.ParseDatum(*datum)
	if err != nil {
		log.Fatal(err)
	}

	req := usecase.Request{Lat: *lat, Lon: *lon, Days: *days, Datum: d}
	if *date != "" {
		day, err := time.Parse("2006-01-02", *date)
		if err != nil {
			log.Fatalf("bad -date: %v", err)
		}
		req.StartDate = &day
	}

	tzres, err := tz.NewResolver()
	if err != nil {
		log.Fatalf("timezone resolver: %v", err)
	}
	service := usecase.NewService(fes.NewStore(*dataDir), tzres)

	events, err := service.PredictEvents(req)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Tide events at (%.4f, %.4f), %d day(s), datum %s, zone %s\n\n",
		*lat, *lon, *days, d, tzres.Name(*lat, *lon))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tHEIGHT (m)\tHEIGHT (ft)")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%+.3f\t%+.3f\n",
			e.Datetime.Format("2006-01-02 15:04"), e.Type, e.HeightM, e.HeightFt)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}
