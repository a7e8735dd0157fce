package gorm

import (
	"fmt"
	"log"

	"city-api/pkg/resource"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var Db *gorm.DB

func init() {
	host := resource.GetString("app.database.host")
	port := resource.GetString("app.database.port")
	password := resource.GetString("app.database.password")
	username := resource.GetString("app.database.user")
	database := resource.GetString("app.database.name")
	sslMode := resource.GetString("app.database.ssl-mode")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, username, password, database, port, sslMode)

	var err error
	Db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Fail to connect Database", zap.Error(err))
	}
}
