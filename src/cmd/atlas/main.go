// Command atlas prints the postgres schema of the booking models so atlas can
// diff it against a live database.
package main

import (
	"fmt"
	"hotelbooking/src/models"
	"io"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"
)

func main() {
	stmts, err := gormschema.New("postgres").Load(
		&models.User{},
		&models.Room{},
		&models.Booking{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load gorm schema: %v\n", err)
		os.Exit(1)
	}
	io.WriteString(os.Stdout, stmts)
}
