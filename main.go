package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	"ourApp/crud"
	"ourApp/http"
)

// main is the app's entry point.
func main() {
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*productionBool)
	if config.IsProd() {
		log.SetFormatter(&log.JSONFormatter{})
	}

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.HMACKey, config.Pepper),
		crud.WithPost(),
		crud.WithFollow(),
	)
	must(err)

	// Set up a webserver and serve the app.
	server := http.NewServer(
		config.IsProd(),
		config.CSRFKey,
		services.User,
		services.Post,
		services.Follow,
	)
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
