package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"dsfrexample/internal/author"
	"dsfrexample/internal/config"
	"dsfrexample/internal/platform/database"
	"dsfrexample/internal/platform/logging"
)

type sampleAuthor struct {
	author author.AuthorData
	books  []author.BookData
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var samples = []sampleAuthor{
	{
		author: author.AuthorData{FirstName: "Victor", LastName: "Hugo", BirthDate: date("1802-02-26")},
		books: []author.BookData{
			{Title: "Les Misérables", NumberOfPages: "1900", Format: author.FormatPaper},
			{Title: "Notre-Dame de Paris", NumberOfPages: "940", Format: author.FormatDigital},
		},
	},
	{
		author: author.AuthorData{FirstName: "George", LastName: "Sand", BirthDate: date("1804-07-01")},
		books: []author.BookData{
			{Title: "La Mare au diable", Format: author.FormatPaper},
		},
	},
	{
		author: author.AuthorData{FirstName: "Émile", LastName: "Zola", BirthDate: date("1840-04-02")},
		books: []author.BookData{
			{Title: "Germinal", NumberOfPages: "592"},
			{Title: "L'Assommoir", NumberOfPages: "576", Format: author.FormatDigital},
			{Title: "Nana"},
		},
	},
	{
		author: author.AuthorData{FirstName: "Simone", LastName: "de Beauvoir", BirthDate: date("1908-01-09")},
	},
}

func main() {
	count := flag.Int("count", len(samples), "Number of sample authors to insert")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)

	ctx := context.Background()
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("cannot open store", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	service := author.NewService(repo)
	inserted := 0
	for i := 0; i < *count; i++ {
		s := samples[i%len(samples)]
		a, err := service.Create(ctx, s.author, s.books)
		if err != nil {
			slog.Error("insert author failed", "last_name", s.author.LastName, "error", err)
			os.Exit(1)
		}
		slog.Debug("author inserted", "author_id", a.ID, "books", len(a.Books))
		inserted++
	}
	slog.Info("seed complete", "authors", inserted)
}

func openRepository(ctx context.Context, cfg config.Config) (author.Repository, func(), error) {
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := database.OpenSQLite(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return author.NewSQLiteRepo(sqlDB, cfg.DBTimeout), func() { sqlDB.Close() }, nil
	}

	pool, err := database.OpenPostgres(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	return author.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil
}
