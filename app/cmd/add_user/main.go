package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Upmanyu201/SchoolManagementSystem/app/config"
	"github.com/Upmanyu201/SchoolManagementSystem/app/database"
	"github.com/Upmanyu201/SchoolManagementSystem/app/models"
	"github.com/Upmanyu201/SchoolManagementSystem/app/routes/auth"
)

func main() {
	email := flag.String("email", "", "login email for the new user")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	password := flag.String("password", "", "initial password")
	role := flag.String("role", "bursar", "role to assign (admin, bursar)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	config.Load()
	db := config.GetDB()
	defer db.Close()

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &models.User{
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
		Password:  hashed,
	}

	if err := database.CreateUser(db, user, *role); err != nil {
		log.Fatal("Error creating user: ", err)
	}

	fmt.Printf("User created successfully: %s %s (%s) with role %s\n",
		user.FirstName, user.LastName, user.Email, *role)
}
