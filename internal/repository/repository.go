// Package repository handles all interactions with the database and cache.
//
// It contains raw SQL queries and methods to fetch and persist events and
// bookings, abstracting SQL logic away from the service layer.
package repository
