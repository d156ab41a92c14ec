package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Tradedesk API
// @version         0.1.0
// @description     Coupon validation, pricing deals, and market regime analysis.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
