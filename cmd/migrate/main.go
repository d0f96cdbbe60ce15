package main

import (
	"log"

	"github.com/Upmanyu201/SchoolManagementSystem/app/config"
	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
)

func main() {
	log.Println("Running database migrations...")

	config.Load()
	db := config.GetDB()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Migrations completed successfully")
}
