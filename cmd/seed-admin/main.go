// Command seed-admin creates the bootstrap administrator account. It is a
// one-time setup step, deliberately separate from the server binary, and it
// hashes the password before anything touches the database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"registration-tracker/config"
	"registration-tracker/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	email := flag.String("email", os.Getenv("BOOTSTRAP_ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Missing admin credentials: set -email/-password or BOOTSTRAP_ADMIN_EMAIL/BOOTSTRAP_ADMIN_PASSWORD")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Fatal("Database migration failed: ", err)
	}

	var existing models.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		fmt.Println("Admin already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	admin := models.User{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     *email,
		Password:  string(hashed),
		Role:      "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin: ", err)
	}

	fmt.Println("Admin created successfully")
}
