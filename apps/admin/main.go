package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
	cachesvc "github.com/trezcool/studyplanner/services/cache"
	logsvc "github.com/trezcool/studyplanner/services/logger"
	"github.com/trezcool/studyplanner/storage/database"
	sqlxrepos "github.com/trezcool/studyplanner/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB & cache
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	cache, err := cachesvc.New(context.Background(), conf)
	errAndDie(err)
	defer cache.Close()

	svcLogger := logsvc.NewConsoleLogger("ADMIN", os.Stdout, conf.Debug)
	svc := studyplan.NewService(conf, sqlxrepos.NewStudyPlanRepository(db), cache, svcLogger)

	// start CLI
	cli := commandLine{
		db:     db,
		engine: conf.Database.Engine,
		svc:    svc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		_ = cache.Close()
		_ = db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
