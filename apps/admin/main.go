package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/vaaniprep/vaani/core"
	"github.com/vaaniprep/vaani/core/note"
	"github.com/vaaniprep/vaani/core/taxonomy"
	"github.com/vaaniprep/vaani/storage/database"
	"github.com/vaaniprep/vaani/storage/database/sqlxrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	sqlDB, err := database.Open(conf)
	errAndDie(err)
	defer sqlDB.Close()
	db := sqlx.NewDb(sqlDB, "postgres")

	// start CLI
	cli := commandLine{
		db:      sqlDB,
		conf:    conf,
		usrRepo: sqlxrepos.NewUserRepository(db),
		admRepo: sqlxrepos.NewAdminRepository(db),
		taxSvc:  taxonomy.NewService(sqlxrepos.NewTaxonomyRepository(db)),
		noteSvc: note.NewService(sqlxrepos.NewNoteRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
