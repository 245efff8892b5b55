package main

// General API documentation for swaggo. Run `swag init -g cmd/ragd/docs.go` to generate docs.
//
// @title           ragd API
// @version         1.0
// @description     HTTP API for document ingestion, search and retrieval-augmented generation.
//
// @contact.name   ragd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
