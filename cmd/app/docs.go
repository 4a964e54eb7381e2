// Package main runs the flight booking API.
//
//	@title			Flight Booking API
//	@version		1.0
//	@description	Flights, users and bookings behind a bearer-token gate.
//	@description	Every operation is also reachable through POST /graphql.
//
//	@BasePath	/
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token from /api/v1/auth/login. Format: "Bearer {token}"
//
//	@tag.name	operations
//	@tag.description	Named operation endpoint
//
//	@tag.name	flights
//	@tag.description	Flight catalogue
//
//	@tag.name	users
//	@tag.description	Registration and login
//
//	@tag.name	bookings
//	@tag.description	Booking lifecycle
//
//	@tag.name	system
//	@tag.description	Health and metrics
package main
