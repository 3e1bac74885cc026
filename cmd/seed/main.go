// Seeds the hotels table from a Kaggle spreadsheet export.
//
// Usage:
//
//	go run ./cmd/seed [path/to/HotelFinalDataset.xlsx]
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/letscodesatish/Hotel-reservation-system/config"
	"github.com/letscodesatish/Hotel-reservation-system/model"
	hotelrepo "github.com/letscodesatish/Hotel-reservation-system/repository/hotel"
	"github.com/letscodesatish/Hotel-reservation-system/util/database"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	path := "HotelFinalDataset.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Error("open spreadsheet failed", "path", path, "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("close spreadsheet failed", "err", err)
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		log.Error("read sheet failed", "sheet", sheet, "err", err)
		os.Exit(1)
	}
	if len(rows) < 2 {
		log.Error("spreadsheet has no data rows", "sheet", sheet)
		os.Exit(1)
	}

	// Column positions come from the header row, not fixed indexes; the
	// dataset exports them as "Hotel Name", "Location", "Rating".
	nameCol, locCol, ratingCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(strings.ToLower(h)) {
		case "hotel name":
			nameCol = i
		case "location":
			locCol = i
		case "rating":
			ratingCol = i
		}
	}
	if nameCol < 0 || locCol < 0 || ratingCol < 0 {
		log.Error("header row must contain Hotel Name, Location and Rating", "header", rows[0])
		os.Exit(1)
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	hr := hotelrepo.New(db)

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	seeded, skipped := 0, 0
	for _, row := range rows[1:] {
		name := cell(row, nameCol)
		if name == "" {
			skipped++
			continue
		}
		rating, err := strconv.ParseFloat(cell(row, ratingCol), 64)
		if err != nil {
			rating = 0
		}

		h := model.Hotel{
			Name:     name,
			Location: cell(row, locCol),
			Rating:   rating,
		}
		if err := hr.CreateHotel(ctx, &h); err != nil {
			log.Warn("insert hotel failed", "name", name, "err", err)
			skipped++
			continue
		}
		seeded++
	}

	log.Info("seed complete", "seeded", seeded, "skipped", skipped)
}
